package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Storage drivers understood by the application bootstrap.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"trivia-api"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:5000"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Storage  Storage
	Postgres Postgres
	Redis    Redis
	Trivia   Trivia
	CORS     CORS
}

// Storage selects the persistence backend.
type Storage struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host       string `env:"PG_HOST" envDefault:"localhost"`
	Port       int    `env:"PG_PORT" envDefault:"5432"`
	User       string `env:"PG_USER" envDefault:""`
	Password   string `env:"PG_PASSWORD" envDefault:""`
	Database   string `env:"PG_DATABASE" envDefault:"trivia"`
	SSLMode    string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns   int32  `env:"PG_MAX_CONNS" envDefault:"10"`
	LogQueries bool   `env:"PG_LOG_QUERIES" envDefault:"false"`
}

// ConnString renders the keyword/value DSN understood by pgx.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Redis holds the optional category cache configuration. An empty Addr
// disables caching.
type Redis struct {
	Addr             string        `env:"REDIS_ADDR" envDefault:""`
	DB               int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize         int           `env:"REDIS_POOL_SIZE" envDefault:"20"`
	CategoryCacheTTL time.Duration `env:"CATEGORY_CACHE_TTL" envDefault:"5m"`
}

// Enabled reports whether a Redis server is configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Trivia groups API behaviour knobs.
type Trivia struct {
	QuestionsPerPage int `env:"QUESTIONS_PER_PAGE" envDefault:"10"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxAge         int      `env:"CORS_MAX_AGE" envDefault:"300"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks rules that span several fields.
func (c *App) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Postgres.User == "" {
			return fmt.Errorf("PG_USER must be configured for the postgres driver")
		}
		if c.Postgres.Database == "" {
			return fmt.Errorf("PG_DATABASE must be configured for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Trivia.QuestionsPerPage <= 0 {
		return fmt.Errorf("QUESTIONS_PER_PAGE must be positive, got %d", c.Trivia.QuestionsPerPage)
	}
	return nil
}
