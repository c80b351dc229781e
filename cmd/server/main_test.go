package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklane/todo-service/internal/core/domain"
	"github.com/tasklane/todo-service/internal/infrastructure/config"
	"github.com/tasklane/todo-service/internal/pkg/retry"
	"github.com/tasklane/todo-service/pkg/logger"
)

func sqliteConfig() *config.Config {
	return &config.Config{
		Port:        "0",
		JWTSecret:   "test-secret",
		TokenTTL:    time.Hour,
		StoreDriver: config.DriverSQLite,
		SQLite:      config.SQLiteConfig{Path: ":memory:"},
		Startup:     config.StartupConfig{Attempts: 1, Backoff: time.Millisecond, MaxBackoff: time.Millisecond},
	}
}

func initLogger(t *testing.T) {
	t.Helper()
	logger.Reset()
	t.Cleanup(logger.Reset)
	logger.Init(logger.Options{Output: io.Discard})
}

func TestOpenStore_SQLite(t *testing.T) {
	initLogger(t)
	ctx := context.Background()

	st, err := openStore(ctx, sqliteConfig(), retry.Policy{Attempts: 1}, logger.Component("store"))
	require.NoError(t, err)
	t.Cleanup(st.close)

	user, err := st.users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = st.todos.Create(ctx, user.ID, "buy milk")
	require.NoError(t, err)

	require.Contains(t, st.checks, "sqlite")
	assert.NoError(t, st.checks["sqlite"](ctx))
}

func TestConnectRedis_ReturnsError(t *testing.T) {
	initLogger(t)
	cfg := sqliteConfig()
	cfg.Redis.Addr = "127.0.0.1:1"

	rdb, err := connectRedis(context.Background(), cfg, retry.Policy{Attempts: 1}, logger.Component("redis"))

	require.Error(t, err)
	assert.Nil(t, rdb)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestRun_RedisFailureReturnsAfterStoreOpened(t *testing.T) {
	initLogger(t)
	cfg := sqliteConfig()
	cfg.Redis.Addr = "127.0.0.1:1"

	err := run(context.Background(), cfg, logger.Get())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect redis")
}
