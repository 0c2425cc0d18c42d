package di

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usergraph/internal/config"
	"usergraph/internal/feature/users/domain/entity"
	"usergraph/internal/platform/cache"
	"usergraph/internal/platform/events"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		StoreDriver:    config.StoreSQLite,
		SQLitePath:     ":memory:",
		RunMigrations:  true,
		ConnectTimeout: time.Second,
	}
}

func TestNewUserStore_SQLite(t *testing.T) {
	ctx := context.Background()

	store, err := NewUserStore(ctx, sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	require.NoError(t, store.Ping(ctx))

	u := &entity.User{Name: "Alice", Email: "a@x.com"}
	require.NoError(t, store.Repo.Create(ctx, u))
	users, err := store.Repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestNewUserStore_UnknownDriver(t *testing.T) {
	_, err := NewUserStore(context.Background(), &config.Config{StoreDriver: "csv"})

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestNewRedisClient_NotConfigured(t *testing.T) {
	assert.Nil(t, NewRedisClient(context.Background(), &config.Config{}))
}

func TestNewEventPublisher_NotConfigured(t *testing.T) {
	assert.Nil(t, NewEventPublisher(&config.Config{}))
}

func TestNewUserRepository_Decorators(t *testing.T) {
	ctx := context.Background()
	store, err := NewUserStore(ctx, sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	cfg := &config.Config{}

	repo := NewUserRepository(ctx, store.Repo, nil, cfg, nil)
	assert.Same(t, store.Repo, repo)

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "users:*", 200).SetVal(nil, 0)
	repo = NewUserRepository(ctx, store.Repo, rdb, cfg, nil)
	_, isCache := repo.(*cache.CachingUserRepository)
	assert.True(t, isCache)

	mock.ExpectScan(0, "users:*", 200).SetVal(nil, 0)
	repo = NewUserRepository(ctx, store.Repo, rdb, cfg, &events.Publisher{})
	_, isNotifying := repo.(*events.NotifyingUserRepository)
	assert.True(t, isNotifying)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewUserRepository_FlushesStaleCache(t *testing.T) {
	ctx := context.Background()
	store, err := NewUserStore(ctx, sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	// 以前のプロセスが別ストアの一覧を残している
	require.NoError(t, mr.Set("users:list:0", `[{"ID":"stale","Name":"Old","Email":"o@x.com"}]`))
	require.NoError(t, mr.Set("users:gen", "0"))

	repo := NewUserRepository(ctx, store.Repo, rdb, &config.Config{}, nil)

	assert.False(t, mr.Exists("users:list:0"))
	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
