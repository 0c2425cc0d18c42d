// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"path/filepath"

	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"usergraph/internal/config"
	"usergraph/internal/feature/users/adapters"
	"usergraph/internal/feature/users/usecase"
	"usergraph/internal/platform/db"
	platformmongo "usergraph/internal/platform/mongo"
)

// UserStore is the base repository together with its lifecycle hooks.
type UserStore struct {
	Repo  usecase.UserRepository
	Ping  func(ctx context.Context) error
	Close func(ctx context.Context) error
}

// NewUserStore connects to the store selected by cfg.StoreDriver.
func NewUserStore(ctx context.Context, cfg *config.Config) (*UserStore, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		return newMongoStore(ctx, cfg)
	case config.StoreSQLite:
		return newSQLStore(db.DriverSQLite, filepath.Clean(cfg.SQLitePath), cfg)
	case config.StorePostgres:
		return newSQLStore(db.DriverPostgres, db.BuildDSN(cfg.DB), cfg)
	default:
		return nil, fmt.Errorf("%w: STORE_DRIVER %q", config.ErrInvalidConfig, cfg.StoreDriver)
	}
}

func newMongoStore(ctx context.Context, cfg *config.Config) (*UserStore, error) {
	client, err := platformmongo.Connect(ctx, cfg.Mongo, cfg.ConnectTimeout)
	if err != nil {
		return nil, err
	}
	return &UserStore{
		Repo: adapters.NewUserMongo(platformmongo.Collection(client, cfg.Mongo)),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		Close: client.Disconnect,
	}, nil
}

func newSQLStore(driver, dsn string, cfg *config.Config) (*UserStore, error) {
	gdb, err := db.Open(driver, dsn, cfg.ConnectTimeout, cfg.RunMigrations, &adapters.UserModel{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	return &UserStore{
		Repo:  adapters.NewUserGorm(gdb),
		Ping:  sqlDB.PingContext,
		Close: func(context.Context) error { return db.Close(gdb) },
	}, nil
}
