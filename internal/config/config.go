// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"usergraph/internal/platform/db"
	"usergraph/internal/platform/events"
	"usergraph/internal/platform/logger"
	"usergraph/internal/platform/mongo"
	"usergraph/internal/platform/redis"
)

// Store drivers.
const (
	StoreMongo    = "mongo"
	StoreSQLite   = db.DriverSQLite
	StorePostgres = db.DriverPostgres
)

// ErrInvalidConfig is returned when a setting has an unsupported value.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all settings of the API server.
type Config struct {
	Port             string        `env:"PORT" envDefault:"5000"`
	GraphQLPath      string        `env:"GRAPHQL_PATH" envDefault:"/graphql"`
	Playground       bool          `env:"GRAPHQL_PLAYGROUND" envDefault:"true"`
	CORSAllowOrigins []string      `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	StoreDriver      string        `env:"STORE_DRIVER" envDefault:"mongo"`
	SQLitePath       string        `env:"SQLITE_PATH" envDefault:"usergraph.db"`
	RunMigrations    bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	ConnectTimeout   time.Duration `env:"CONNECT_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Log    logger.Config
	Mongo  mongo.Config
	DB     db.Config
	Redis  redis.Config
	Events events.Config
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("%w: STORE_DRIVER %q (want mongo, sqlite or postgres)", ErrInvalidConfig, c.StoreDriver)
	}
	if !strings.HasPrefix(c.GraphQLPath, "/") {
		return fmt.Errorf("%w: GRAPHQL_PATH %q must start with /", ErrInvalidConfig, c.GraphQLPath)
	}
	if c.Port == "" {
		return fmt.Errorf("%w: PORT is empty", ErrInvalidConfig)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
