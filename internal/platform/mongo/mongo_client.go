// Package mongo connects to the MongoDB user store.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Config holds the MongoDB connection settings.
type Config struct {
	URI        string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017/graphql_example"`
	Database   string `env:"MONGO_DATABASE" envDefault:"graphql_example"`
	Collection string `env:"MONGO_COLLECTION" envDefault:"users"`
}

// retryInterval is the pause between ping attempts.
var retryInterval = 3 * time.Second

// Connect creates a client for cfg.URI and pings it until it answers or timeout elapses.
func Connect(ctx context.Context, cfg Config, timeout time.Duration) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := PingWithRetry(ctx, timeout, func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	slog.Info("MongoDB connection successful", "database", cfg.Database)
	return client, nil
}

// PingWithRetry calls ping until it succeeds, timeout elapses or ctx is done.
func PingWithRetry(ctx context.Context, timeout time.Duration, ping func(context.Context) error) error {
	deadline := time.Now().Add(timeout)
	for {
		attemptCtx, cancel := context.WithTimeout(ctx, retryInterval)
		err := ping(attemptCtx)
		cancel()
		if err == nil {
			return nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return fmt.Errorf("mongo ping failed after %s: %w", timeout, err)
		}
		slog.Warn("MongoDB ping failed, retrying", "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

// Collection returns the users collection named by cfg.
func Collection(client *mongo.Client, cfg Config) *mongo.Collection {
	return client.Database(cfg.Database).Collection(cfg.Collection)
}
