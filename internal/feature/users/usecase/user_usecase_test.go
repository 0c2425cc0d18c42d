package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usergraph/internal/feature/users/domain"
	"usergraph/internal/feature/users/domain/entity"
	"usergraph/internal/feature/users/usecase"
)

// mockUserRepository is a func-field mock of usecase.UserRepository.
type mockUserRepository struct {
	ListFunc     func(ctx context.Context) ([]entity.User, error)
	FindByIDFunc func(ctx context.Context, id string) (*entity.User, error)
	CreateFunc   func(ctx context.Context, u *entity.User) error
	UpdateFunc   func(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error)
	DeleteFunc   func(ctx context.Context, id string) error
}

func (m *mockUserRepository) List(ctx context.Context) ([]entity.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, usecase.ErrUserNotFound
}

func (m *mockUserRepository) Create(ctx context.Context, u *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return nil, usecase.ErrUserNotFound
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return usecase.ErrUserNotFound
}

// recorder captures operation outcomes.
type recorder struct {
	calls []string
}

func (r *recorder) RecordUserOperation(operation, result string) {
	r.calls = append(r.calls, operation+":"+result)
}

func intPtr(v int) *int { return &v }

func TestUserUsecase_ListUsers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		listFunc func(ctx context.Context) ([]entity.User, error)
		want     []entity.User
		wantErr  error
	}{
		{
			name: "success: returns users in store order",
			listFunc: func(ctx context.Context) ([]entity.User, error) {
				return []entity.User{{ID: "b", Name: "Bob"}, {ID: "a", Name: "Alice"}}, nil
			},
			want: []entity.User{{ID: "b", Name: "Bob"}, {ID: "a", Name: "Alice"}},
		},
		{
			name: "success: empty store",
			listFunc: func(ctx context.Context) ([]entity.User, error) {
				return []entity.User{}, nil
			},
			want: []entity.User{},
		},
		{
			name: "failure: repository error becomes fetch error",
			listFunc: func(ctx context.Context) ([]entity.User, error) {
				return nil, errors.New("connection reset")
			},
			wantErr: domain.ErrFetch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewUserUsecase(&mockUserRepository{ListFunc: tt.listFunc}, nil)
			users, err := uc.ListUsers(context.Background())

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "Error fetching users", err.Error())
				assert.Nil(t, users)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, users)
		})
	}
}

func TestUserUsecase_GetUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		find    func(ctx context.Context, id string) (*entity.User, error)
		wantErr error
		wantMsg string
	}{
		{
			name: "success",
			find: func(ctx context.Context, id string) (*entity.User, error) {
				return &entity.User{ID: id, Name: "Alice", Email: "a@x.com"}, nil
			},
		},
		{
			name: "failure: missing user",
			find: func(ctx context.Context, id string) (*entity.User, error) {
				return nil, usecase.ErrUserNotFound
			},
			wantErr: domain.ErrNotFound,
			wantMsg: "User not found",
		},
		{
			name: "failure: store error",
			find: func(ctx context.Context, id string) (*entity.User, error) {
				return nil, errors.New("timeout")
			},
			wantErr: domain.ErrFetch,
			wantMsg: "Error fetching user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewUserUsecase(&mockUserRepository{FindByIDFunc: tt.find}, nil)
			user, err := uc.GetUser(context.Background(), "u1")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.EqualError(t, err, tt.wantMsg)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", user.ID)
		})
	}
}

func TestUserUsecase_CreateUser(t *testing.T) {
	t.Parallel()

	t.Run("success: returns generated id and createdAt", func(t *testing.T) {
		t.Parallel()

		created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, u *entity.User) error {
				u.ID = "65a000000000000000000001"
				u.CreatedAt = created
				return nil
			},
		}
		rec := &recorder{}
		uc := usecase.NewUserUsecase(repo, rec)

		user, err := uc.CreateUser(context.Background(), "Alice", "a@x.com", intPtr(30))

		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, created, user.CreatedAt)
		assert.Equal(t, "Alice", user.Name)
		assert.Equal(t, "a@x.com", user.Email)
		require.NotNil(t, user.Age)
		assert.Equal(t, 30, *user.Age)
		assert.Equal(t, []string{"create:ok"}, rec.calls)
	})

	t.Run("failure: validation error collapses to create error", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, u *entity.User) error {
				return u.Validate()
			},
		}
		rec := &recorder{}
		uc := usecase.NewUserUsecase(repo, rec)

		user, err := uc.CreateUser(context.Background(), "", "a@x.com", nil)

		require.Error(t, err)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, domain.ErrCreate)
		assert.EqualError(t, err, "Error creating user")
		// the cause is kept for logging
		assert.ErrorIs(t, err, entity.ErrValidation)
		assert.Equal(t, []string{"create:create_error"}, rec.calls)
	})

	t.Run("failure: missing email", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, u *entity.User) error {
				return u.Validate()
			},
		}
		uc := usecase.NewUserUsecase(repo, nil)

		_, err := uc.CreateUser(context.Background(), "Alice", "", nil)

		assert.ErrorIs(t, err, domain.ErrCreate)
	})
}

func TestUserUsecase_UpdateUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		update  func(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error)
		wantErr error
		wantMsg string
	}{
		{
			name: "success",
			update: func(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
				u := &entity.User{ID: id, Name: "Alice", Email: "a@x.com"}
				patch.Apply(u)
				return u, nil
			},
		},
		{
			name: "failure: not found",
			update: func(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
				return nil, usecase.ErrUserNotFound
			},
			wantErr: domain.ErrNotFound,
			wantMsg: "User not found",
		},
		{
			name: "failure: validation",
			update: func(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
				return nil, patch.Validate()
			},
			wantErr: domain.ErrUpdate,
			wantMsg: "Error updating user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewUserUsecase(&mockUserRepository{UpdateFunc: tt.update}, nil)
			patch := entity.UserPatch{Name: entity.Null[string](), Age: entity.Some(31)}
			if tt.wantErr == nil {
				patch.Name = entity.Optional[string]{}
			}

			user, err := uc.UpdateUser(context.Background(), "u1", patch)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.EqualError(t, err, tt.wantMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Alice", user.Name)
			assert.Equal(t, "a@x.com", user.Email)
			require.NotNil(t, user.Age)
			assert.Equal(t, 31, *user.Age)
		})
	}
}

func TestUserUsecase_DeleteUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		del     func(ctx context.Context, id string) error
		want    bool
		wantErr error
	}{
		{
			name: "success",
			del:  func(ctx context.Context, id string) error { return nil },
			want: true,
		},
		{
			name:    "failure: not found",
			del:     func(ctx context.Context, id string) error { return usecase.ErrUserNotFound },
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "failure: store error",
			del:     func(ctx context.Context, id string) error { return errors.New("write concern") },
			wantErr: domain.ErrDelete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewUserUsecase(&mockUserRepository{DeleteFunc: tt.del}, nil)
			ok, err := uc.DeleteUser(context.Background(), "u1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestUserUsecase_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := &mockUserRepository{
		ListFunc: func(ctx context.Context) ([]entity.User, error) {
			return nil, ctx.Err()
		},
	}
	uc := usecase.NewUserUsecase(repo, nil)

	users, err := uc.ListUsers(ctx)

	assert.Nil(t, users)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.ErrorIs(t, err, context.Canceled)
}
