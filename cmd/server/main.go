// @title           Todo Service API
// @version         1.0
// @description     Multi-user to-do list API with JWT sessions.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/tasklane/todo-service/internal/api"
	"github.com/tasklane/todo-service/internal/core/ports"
	"github.com/tasklane/todo-service/internal/core/service"
	"github.com/tasklane/todo-service/internal/infrastructure/config"
	rediscache "github.com/tasklane/todo-service/internal/infrastructure/db/redis"
	"github.com/tasklane/todo-service/internal/infrastructure/token"
	"github.com/tasklane/todo-service/internal/pkg/retry"
	"github.com/tasklane/todo-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Service: "todo-service"})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "todo-service",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// run owns every resource opened after config load. It returns instead of
// exiting so deferred cleanup always runs.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	policy := retry.Policy{
		Attempts:   cfg.Startup.Attempts,
		Initial:    cfg.Startup.Backoff,
		MaxBackoff: cfg.Startup.MaxBackoff,
	}

	st, err := openStore(ctx, cfg, policy, logger.Component("store"))
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer st.close()

	var revocations ports.RevocationStore
	if cfg.Redis.Addr != "" {
		rdb, err := connectRedis(ctx, cfg, policy, logger.Component("redis"))
		if err != nil {
			return err
		}
		defer rdb.Close()
		revocations = rediscache.NewRevocationStore(rdb)
		st.checks["redis"] = func(ctx context.Context) error { return rediscache.Ping(ctx, rdb) }
	} else {
		log.Warn().Msg("REDIS_ADDR not set; logout will not revoke tokens")
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	authOpts := []service.AuthOption{}
	if revocations != nil {
		authOpts = append(authOpts, service.WithRevocationStore(revocations))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	e := api.NewRouter(api.Dependencies{
		AuthService: service.NewAuthService(st.users, tokens, logger.Component("auth"), authOpts...),
		TodoService: service.NewTodoService(st.todos, logger.Component("todos")),
		Guard:       service.NewTokenGuard(tokens, revocations),
		Registry:    registry,
		Checks:      st.checks,
		Logger:      logger.Component("http"),
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
