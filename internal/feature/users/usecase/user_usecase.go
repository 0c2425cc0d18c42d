package usecase

import (
	"context"
	"errors"
	"log/slog"

	"usergraph/internal/feature/users/domain"
	"usergraph/internal/feature/users/domain/entity"
)

// UserRepository abstracts the persistence layer for users.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// List returns every stored user in store order.
	List(ctx context.Context) ([]entity.User, error)

	// FindByID returns the user with the given ID or ErrUserNotFound.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// Create validates and persists u, filling in ID and CreatedAt.
	Create(ctx context.Context, u *entity.User) error

	// Update applies patch to the stored user and returns the updated record.
	// It returns ErrUserNotFound if the ID does not exist.
	Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error)

	// Delete removes the user. It returns ErrUserNotFound if the ID does not exist.
	Delete(ctx context.Context, id string) error
}

// OperationRecorder receives the outcome of every operation, e.g. for metrics.
type OperationRecorder interface {
	RecordUserOperation(operation, result string)
}

type nopRecorder struct{}

func (nopRecorder) RecordUserOperation(string, string) {}

// UserUsecase maps the four CRUD operations (plus lookup by ID) onto a repository
// and collapses every failure into one domain.Error per operation.
type UserUsecase struct {
	repo     UserRepository
	recorder OperationRecorder
}

// NewUserUsecase creates a UserUsecase. recorder may be nil.
func NewUserUsecase(repo UserRepository, recorder OperationRecorder) *UserUsecase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &UserUsecase{repo: repo, recorder: recorder}
}

// ListUsers returns all users in store order.
func (u *UserUsecase) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := u.repo.List(ctx)
	if err != nil {
		return nil, u.fail("list", domain.KindFetch, "Error fetching users", err)
	}
	u.recorder.RecordUserOperation("list", "ok")
	return users, nil
}

// GetUser returns the user with the given ID.
func (u *UserUsecase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, u.fail("get", domain.KindNotFound, "User not found", err)
		}
		return nil, u.fail("get", domain.KindFetch, "Error fetching user", err)
	}
	u.recorder.RecordUserOperation("get", "ok")
	return user, nil
}

// CreateUser persists a new user. age may be nil.
func (u *UserUsecase) CreateUser(ctx context.Context, name, email string, age *int) (*entity.User, error) {
	user := &entity.User{Name: name, Email: email, Age: age}
	if err := u.repo.Create(ctx, user); err != nil {
		return nil, u.fail("create", domain.KindCreate, "Error creating user", err)
	}
	slog.Info("user created", "id", user.ID)
	u.recorder.RecordUserOperation("create", "ok")
	return user, nil
}

// UpdateUser applies a partial update and returns the updated user.
func (u *UserUsecase) UpdateUser(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	user, err := u.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, u.fail("update", domain.KindNotFound, "User not found", err)
		}
		return nil, u.fail("update", domain.KindUpdate, "Error updating user", err)
	}
	u.recorder.RecordUserOperation("update", "ok")
	return user, nil
}

// DeleteUser removes the user and reports success.
func (u *UserUsecase) DeleteUser(ctx context.Context, id string) (bool, error) {
	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, u.fail("delete", domain.KindNotFound, "User not found", err)
		}
		return false, u.fail("delete", domain.KindDelete, "Error deleting user", err)
	}
	u.recorder.RecordUserOperation("delete", "ok")
	return true, nil
}

// fail logs the cause and returns the coarse error surfaced to clients.
func (u *UserUsecase) fail(op string, kind domain.Kind, message string, cause error) error {
	if kind == domain.KindNotFound {
		slog.Warn("user operation failed", "operation", op, "kind", kind.String(), "error", cause)
	} else {
		slog.Error("user operation failed", "operation", op, "kind", kind.String(), "error", cause)
	}
	u.recorder.RecordUserOperation(op, kind.String())
	return domain.New(kind, message, cause)
}
