package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"usergraph/internal/app/di"
	"usergraph/internal/app/router"
	"usergraph/internal/config"
	usersgql "usergraph/internal/feature/users/transport/gql"
	"usergraph/internal/feature/users/usecase"
	"usergraph/internal/platform/http/handler"
	"usergraph/internal/platform/logger"
	"usergraph/internal/platform/metrics"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(os.Stdout, cfg.Log)
	slog.SetDefault(log)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store
	store, err := di.NewUserStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	// Redis
	rdb := di.NewRedisClient(ctx, cfg)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// RabbitMQ
	pub := di.NewEventPublisher(cfg)
	if pub != nil {
		defer pub.Close()
	}

	// Repository -> Usecase -> GraphQL
	repo := di.NewUserRepository(ctx, store.Repo, rdb, cfg, pub)
	uc := usecase.NewUserUsecase(repo, metrics.Recorder{})
	schema, err := usersgql.NewSchema(uc)
	if err != nil {
		return err
	}

	pingers := map[string]handler.Pinger{"store": store.Ping}
	if rdb != nil {
		pingers["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	if pub != nil {
		pingers["rabbitmq"] = pub.Ping
	}

	r := router.NewRouter(usersgql.NewHandler(schema, cfg.GraphQLPath), router.Options{
		GraphQLPath:      cfg.GraphQLPath,
		Playground:       cfg.Playground,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Pingers:          pingers,
		Logger:           log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server ready", "addr", srv.Addr, "graphql", cfg.GraphQLPath, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
