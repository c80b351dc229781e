package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess_Defaults(t *testing.T) {
	cfg, err := process(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "supersecret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "postgres", cfg.Postgres.Host)
	assert.Equal(t, "todo", cfg.Postgres.User)
	assert.Equal(t, "todo", cfg.Postgres.Password)
	assert.Equal(t, "todo_db", cfg.Postgres.Database)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 10, cfg.Startup.Attempts)
	assert.True(t, cfg.IsDevelopment())
}

func TestProcess_Overrides(t *testing.T) {
	cfg, err := process(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":         "8080",
		"ENV":          "production",
		"JWT_SECRET":   "s3cret",
		"STORE_DRIVER": "sqlite",
		"SQLITE_PATH":  "/tmp/x.db",
		"DB_PORT":      "6543",
		"REDIS_ADDR":   "redis:6379",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/x.db", cfg.SQLite.Path)
	assert.Equal(t, 6543, cfg.Postgres.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestProcess_RejectsUnknownDriver(t *testing.T) {
	_, err := process(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER": "oracle",
	}))
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestProcess_RejectsBadDuration(t *testing.T) {
	_, err := process(context.Background(), envconfig.MapLookuper(map[string]string{
		"TOKEN_TTL": "soon",
	}))
	assert.Error(t, err)
}
