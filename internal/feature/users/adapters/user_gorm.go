// Package adapters provides the repository implementations for the users feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"usergraph/internal/feature/users/domain/entity"
	"usergraph/internal/feature/users/usecase"
)

// userGorm is a SQL implementation of UserRepository backed by GORM.
// It serves both the sqlite and postgres drivers.
type userGorm struct {
	db  *gorm.DB
	now func() time.Time
}

// Compile-time check to ensure userGorm implements UserRepository.
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm creates a new instance of userGorm.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db, now: time.Now}
}

// List returns all users ordered by creation time.
func (r *userGorm) List(ctx context.Context) ([]entity.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	users := make([]entity.User, len(models))
	for i := range models {
		users[i] = *models[i].ToEntity()
	}
	return users, nil
}

// FindByID returns the user with the given ID.
// IDs that are not UUIDs return usecase.ErrUserNotFound without touching the database.
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usecase.ErrUserNotFound
	}
	var m UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// Create validates u, assigns ID and CreatedAt, and inserts it.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.now().UTC().Truncate(time.Millisecond)

	if err := r.db.WithContext(ctx).Create(UserModelFromEntity(u)).Error; err != nil {
		u.ID = ""
		u.CreatedAt = time.Time{}
		return err
	}
	return nil
}

// Update applies patch inside a transaction and returns the merged record.
func (r *userGorm) Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usecase.ErrUserNotFound
	}

	var updated *entity.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m UserModel
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrUserNotFound
			}
			return err
		}

		u := m.ToEntity()
		patch.Apply(u)
		if err := u.Validate(); err != nil {
			return err
		}
		if patch.IsEmpty() {
			updated = u
			return nil
		}

		if err := tx.Model(&UserModel{}).Where("id = ?", id).Updates(patchColumns(patch, u)).Error; err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the user with the given ID.
func (r *userGorm) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return usecase.ErrUserNotFound
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// patchColumns builds the column map for the supplied fields only.
// A map is used so that clearing age writes NULL instead of being skipped.
func patchColumns(patch entity.UserPatch, merged *entity.User) map[string]any {
	cols := map[string]any{}
	if patch.Name.Set {
		cols["name"] = merged.Name
	}
	if patch.Email.Set {
		cols["email"] = merged.Email
	}
	if patch.Age.Set {
		if merged.Age == nil {
			cols["age"] = nil
		} else {
			cols["age"] = *merged.Age
		}
	}
	return cols
}
