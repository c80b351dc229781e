package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/tasklane/todo-service/internal/core/ports"
	"github.com/tasklane/todo-service/internal/infrastructure/config"
	"github.com/tasklane/todo-service/internal/infrastructure/db/mongo"
	"github.com/tasklane/todo-service/internal/infrastructure/db/postgres"
	rediscache "github.com/tasklane/todo-service/internal/infrastructure/db/redis"
	"github.com/tasklane/todo-service/internal/infrastructure/db/sqlite"
	"github.com/tasklane/todo-service/internal/infrastructure/http/handlers"
	"github.com/tasklane/todo-service/internal/pkg/retry"
)

// store bundles the repositories of the selected driver with its readiness
// checks and cleanup.
type store struct {
	users  ports.UserRepository
	todos  ports.TodoRepository
	checks map[string]handlers.Check
	close  func()
}

func openStore(ctx context.Context, cfg *config.Config, policy retry.Policy, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, policy, log)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, policy, log)
	default:
		return openPostgres(ctx, cfg, policy, log)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, policy retry.Policy, log zerolog.Logger) (*store, error) {
	pgCfg := postgres.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		MaxConns: cfg.Postgres.MaxConns,
	}

	var pool *pgxpool.Pool
	err := retry.Do(ctx, policy, log, "postgres", func(ctx context.Context) error {
		var err error
		pool, err = postgres.Connect(ctx, pgCfg)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := postgres.Migrate(pgCfg); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Str("host", pgCfg.Host).Str("database", pgCfg.Database).Msg("postgres ready")

	return &store{
		users:  postgres.NewUserRepository(pool),
		todos:  postgres.NewTodoRepository(pool),
		checks: map[string]handlers.Check{"postgres": pool.Ping},
		close:  pool.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, policy retry.Policy, log zerolog.Logger) (*store, error) {
	var (
		client *mongodrv.Client
		db     *mongodrv.Database
	)
	err := retry.Do(ctx, policy, log, "mongodb", func(ctx context.Context) error {
		var err error
		client, db, err = mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		return err
	})
	if err != nil {
		return nil, err
	}

	disconnect := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		disconnect()
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb ready")

	return &store{
		users: mongo.NewUserRepository(db),
		todos: mongo.NewTodoRepository(db),
		checks: map[string]handlers.Check{"mongodb": func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}},
		close: disconnect,
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, policy retry.Policy, log zerolog.Logger) (*store, error) {
	var db *gorm.DB
	err := retry.Do(ctx, policy, log, "sqlite", func(ctx context.Context) error {
		var err error
		db, err = sqlite.Open(ctx, sqlite.Config{Path: cfg.SQLite.Path})
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", cfg.SQLite.Path).Msg("sqlite ready")

	return &store{
		users: sqlite.NewUserRepository(db),
		todos: sqlite.NewTodoRepository(db),
		checks: map[string]handlers.Check{"sqlite": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}},
		close: func() { _ = sqlite.Close(db) },
	}, nil
}

func connectRedis(ctx context.Context, cfg *config.Config, policy retry.Policy, log zerolog.Logger) (*redis.Client, error) {
	var rdb *redis.Client
	err := retry.Do(ctx, policy, log, "redis", func(ctx context.Context) error {
		var err error
		rdb, err = rediscache.Connect(ctx, rediscache.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis at %s: %w", cfg.Redis.Addr, err)
	}
	return rdb, nil
}
