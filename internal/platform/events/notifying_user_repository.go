package events

import (
	"context"
	"log/slog"
	"strconv"

	"usergraph/internal/feature/users/domain/entity"
	"usergraph/internal/feature/users/usecase"
)

// Routing keys for user events.
const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"
)

// EventPublisher sends a payload under a routing key.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// UserEvent is the message body of every user event.
// User is omitted for deletions.
type UserEvent struct {
	Type string       `json:"type"`
	ID   string       `json:"id"`
	User *UserPayload `json:"user,omitempty"`
}

// UserPayload mirrors the GraphQL User shape.
type UserPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Age       *int   `json:"age"`
	CreatedAt string `json:"createdAt"`
}

func newUserPayload(u *entity.User) *UserPayload {
	return &UserPayload{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: strconv.FormatInt(u.CreatedAt.UnixMilli(), 10),
	}
}

// NotifyingUserRepository publishes an event after every successful mutation.
// Publish failures are logged and never fail the mutation.
type NotifyingUserRepository struct {
	inner usecase.UserRepository
	pub   EventPublisher
}

var _ usecase.UserRepository = (*NotifyingUserRepository)(nil)

// NewNotifyingUserRepository wraps inner. A nil pub disables publishing.
func NewNotifyingUserRepository(inner usecase.UserRepository, pub EventPublisher) *NotifyingUserRepository {
	return &NotifyingUserRepository{inner: inner, pub: pub}
}

func (n *NotifyingUserRepository) List(ctx context.Context) ([]entity.User, error) {
	return n.inner.List(ctx)
}

func (n *NotifyingUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return n.inner.FindByID(ctx, id)
}

func (n *NotifyingUserRepository) Create(ctx context.Context, u *entity.User) error {
	if err := n.inner.Create(ctx, u); err != nil {
		return err
	}
	n.publish(ctx, UserEvent{Type: UserCreated, ID: u.ID, User: newUserPayload(u)})
	return nil
}

func (n *NotifyingUserRepository) Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	u, err := n.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	n.publish(ctx, UserEvent{Type: UserUpdated, ID: u.ID, User: newUserPayload(u)})
	return u, nil
}

func (n *NotifyingUserRepository) Delete(ctx context.Context, id string) error {
	if err := n.inner.Delete(ctx, id); err != nil {
		return err
	}
	n.publish(ctx, UserEvent{Type: UserDeleted, ID: id})
	return nil
}

func (n *NotifyingUserRepository) publish(ctx context.Context, ev UserEvent) {
	if n.pub == nil {
		return
	}
	if err := n.pub.Publish(ctx, ev.Type, ev); err != nil {
		slog.Warn("failed to publish user event", "type", ev.Type, "id", ev.ID, "error", err)
	}
}
