package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db"
	"github.com/gokatarajesh/trivia-api/internal/db/pgstore"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/server"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
	"github.com/gokatarajesh/trivia-api/internal/trivia/memstore"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps logger, storage, the optional Redis cache and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Str("storage", cfg.Storage.Driver).Msg("starting application bootstrap")

	a := &Application{cfg: cfg, logger: logger}

	var (
		categories trivia.CategoryStore
		questions  trivia.QuestionStore
		deps       []server.Dependency
	)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store := memstore.NewSeeded()
		categories, questions = store, store
		logger.Warn().Msg("using in-memory storage; data is lost on restart")
	default:
		pool, err := db.Connect(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		a.pool = pool

		queries := pgstore.New(pool)
		categories = repository.NewCategoryRepository(queries)
		questions = repository.NewQuestionRepository(queries)
		deps = append(deps, server.Dependency{Name: "postgres", Ping: pool.Ping})
	}

	var cache trivia.CategoryCache
	if cfg.Redis.Enabled() {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		cache = trivia.NewCache(a.redis, cfg.Redis.CategoryCacheTTL)
		deps = append(deps, server.Dependency{
			Name: "redis",
			Ping: func(ctx context.Context) error { return a.redis.Ping(ctx).Err() },
		})
	} else {
		logger.Info().Msg("REDIS_ADDR not set; category cache disabled")
	}

	svc := trivia.NewService(categories, questions, cache, trivia.ServiceOptions{
		QuestionsPerPage: cfg.Trivia.QuestionsPerPage,
	})
	a.http = server.NewHTTPServer(cfg, logger, trivia.NewHTTPHandler(svc, logger), deps...)

	return a, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}
	a.Close()

	a.logger.Info().Msg("shutdown complete")
	return runErr
}

// Close releases the Postgres pool and Redis client, if any.
func (a *Application) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}
}
