package adapters

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"usergraph/internal/feature/users/domain/entity"
	"usergraph/internal/feature/users/usecase"
)

// userDocument is the stored shape of a user in the users collection.
type userDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Age       *int          `bson:"age,omitempty"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Age:       d.Age,
		CreatedAt: d.CreatedAt,
	}
}

// userMongo is a MongoDB implementation of UserRepository.
type userMongo struct {
	coll *mongo.Collection
	now  func() time.Time
}

// Compile-time check to ensure userMongo implements UserRepository.
var _ usecase.UserRepository = (*userMongo)(nil)

// NewUserMongo creates a new instance of userMongo over the given collection.
func NewUserMongo(coll *mongo.Collection) *userMongo {
	return &userMongo{coll: coll, now: time.Now}
}

// List returns every document in natural order.
func (r *userMongo) List(ctx context.Context) ([]entity.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]entity.User, len(docs))
	for i := range docs {
		users[i] = *docs[i].toEntity()
	}
	return users, nil
}

// FindByID returns the user with the given ObjectID hex string.
func (r *userMongo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, mapMongoErr(err)
	}
	return doc.toEntity(), nil
}

// Create validates u, inserts it and fills in ID and CreatedAt.
func (r *userMongo) Create(ctx context.Context, u *entity.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	doc := userDocument{
		ID:        bson.NewObjectID(),
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	u.ID = doc.ID.Hex()
	u.CreatedAt = doc.CreatedAt
	return nil
}

// Update applies patch atomically and returns the post-update document.
func (r *userMongo) Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, buildUpdate(patch), opts).Decode(&doc)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return doc.toEntity(), nil
}

// Delete removes the document with the given ID.
func (r *userMongo) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Err(); err != nil {
		return mapMongoErr(err)
	}
	return nil
}

// parseObjectID treats any string that is not a 24-char hex ObjectID as a missing user.
func parseObjectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, usecase.ErrUserNotFound
	}
	return oid, nil
}

func mapMongoErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return usecase.ErrUserNotFound
	}
	return err
}

// buildUpdate turns a patch into a $set/$unset update document.
// A null age is removed from the document rather than stored as null.
func buildUpdate(patch entity.UserPatch) bson.D {
	set := bson.D{}
	unset := bson.D{}

	if patch.Name.Set && patch.Name.Value != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name.Value})
	}
	if patch.Email.Set && patch.Email.Value != nil {
		set = append(set, bson.E{Key: "email", Value: *patch.Email.Value})
	}
	if patch.Age.Set {
		if patch.Age.Value == nil {
			unset = append(unset, bson.E{Key: "age", Value: ""})
		} else {
			set = append(set, bson.E{Key: "age", Value: *patch.Age.Value})
		}
	}

	update := bson.D{}
	if len(set) > 0 {
		update = append(update, bson.E{Key: "$set", Value: set})
	}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}
	return update
}
