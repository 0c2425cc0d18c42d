package di

import (
	"context"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"usergraph/internal/config"
	"usergraph/internal/feature/users/usecase"
	"usergraph/internal/platform/cache"
	"usergraph/internal/platform/events"
	platformredis "usergraph/internal/platform/redis"
)

// NewRedisClient returns a connected client, or nil when Redis is not configured
// or unreachable. The server keeps running without cache in that case.
func NewRedisClient(ctx context.Context, cfg *config.Config) *goredis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	rdb, err := platformredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		return nil
	}
	return rdb
}

// NewEventPublisher returns a RabbitMQ publisher, or nil when RabbitMQ is not
// configured or unreachable.
func NewEventPublisher(cfg *config.Config) *events.Publisher {
	if cfg.Events.URL == "" {
		return nil
	}
	pub, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
	if err != nil {
		slog.Warn("RabbitMQ unavailable. Running without user events.", "error", err)
		return nil
	}
	return pub
}

// NewUserRepository wraps base with the optional cache and event decorators.
// Events are published from the outermost layer so they follow cache invalidation.
// The cache is flushed once here, since entries left by a previous process may
// belong to a different store.
func NewUserRepository(ctx context.Context, base usecase.UserRepository, rdb *goredis.Client, cfg *config.Config, pub *events.Publisher) usecase.UserRepository {
	repo := base
	if rdb != nil {
		cached := cache.NewCachingUserRepository(rdb, cfg.Redis.TTL, repo, "users")
		if err := cached.Flush(ctx); err != nil {
			slog.Warn("failed to flush user cache", "error", err)
		}
		repo = cached
	}
	if pub != nil {
		repo = events.NewNotifyingUserRepository(repo, pub)
	}
	return repo
}
