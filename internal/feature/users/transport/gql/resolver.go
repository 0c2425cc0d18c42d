// Package gql exposes the users feature over GraphQL.
package gql

import (
	"context"
	_ "embed"
	"strconv"

	graphql "github.com/graph-gophers/graphql-go"

	"usergraph/internal/feature/users/domain/entity"
)

//go:embed schema.graphql
var schemaSDL string

// UserUsecase is the set of user operations the resolvers call.
// Following Go convention: interfaces are defined by the consumer (transport), not the provider (usecase).
type UserUsecase interface {
	ListUsers(ctx context.Context) ([]entity.User, error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
	CreateUser(ctx context.Context, name, email string, age *int) (*entity.User, error)
	UpdateUser(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) (bool, error)
}

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	uc UserUsecase
}

// NewResolver creates a new Resolver.
func NewResolver(uc UserUsecase) *Resolver {
	return &Resolver{uc: uc}
}

// NewSchema parses the embedded SDL against a Resolver backed by uc.
func NewSchema(uc UserUsecase, opts ...graphql.SchemaOpt) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, NewResolver(uc), opts...)
}

// Users resolves Query.users.
func (r *Resolver) Users(ctx context.Context) ([]*UserResolver, error) {
	users, err := r.uc.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*UserResolver, 0, len(users))
	for i := range users {
		out = append(out, &UserResolver{u: users[i]})
	}
	return out, nil
}

// User resolves Query.user.
func (r *Resolver) User(ctx context.Context, args struct{ ID graphql.ID }) (*UserResolver, error) {
	u, err := r.uc.GetUser(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &UserResolver{u: *u}, nil
}

type createUserArgs struct {
	Name  string
	Email string
	Age   *int32
}

// CreateUser resolves Mutation.createUser.
func (r *Resolver) CreateUser(ctx context.Context, args createUserArgs) (*UserResolver, error) {
	u, err := r.uc.CreateUser(ctx, args.Name, args.Email, fromInt32(args.Age))
	if err != nil {
		return nil, err
	}
	return &UserResolver{u: *u}, nil
}

type updateUserArgs struct {
	ID    graphql.ID
	Name  graphql.NullString
	Email graphql.NullString
	Age   graphql.NullInt
}

// UpdateUser resolves Mutation.updateUser. Arguments that are omitted stay unchanged;
// arguments passed as null are forwarded as explicit nulls.
func (r *Resolver) UpdateUser(ctx context.Context, args updateUserArgs) (*UserResolver, error) {
	patch := entity.UserPatch{
		Name:  entity.Optional[string]{Value: args.Name.Value, Set: args.Name.Set},
		Email: entity.Optional[string]{Value: args.Email.Value, Set: args.Email.Set},
		Age:   entity.Optional[int]{Value: fromInt32(args.Age.Value), Set: args.Age.Set},
	}
	u, err := r.uc.UpdateUser(ctx, string(args.ID), patch)
	if err != nil {
		return nil, err
	}
	return &UserResolver{u: *u}, nil
}

// DeleteUser resolves Mutation.deleteUser.
func (r *Resolver) DeleteUser(ctx context.Context, args struct{ ID graphql.ID }) (*bool, error) {
	ok, err := r.uc.DeleteUser(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &ok, nil
}

// UserResolver resolves the fields of the User type.
type UserResolver struct {
	u entity.User
}

func (r *UserResolver) ID() graphql.ID { return graphql.ID(r.u.ID) }
func (r *UserResolver) Name() string   { return r.u.Name }
func (r *UserResolver) Email() string  { return r.u.Email }

func (r *UserResolver) Age() *int32 {
	if r.u.Age == nil {
		return nil
	}
	v := int32(*r.u.Age)
	return &v
}

// CreatedAt is the creation time in milliseconds since the Unix epoch, as a decimal string.
func (r *UserResolver) CreatedAt() *string {
	if r.u.CreatedAt.IsZero() {
		return nil
	}
	s := strconv.FormatInt(r.u.CreatedAt.UnixMilli(), 10)
	return &s
}

func fromInt32(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
