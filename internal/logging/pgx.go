package logging

import (
	zerologadapter "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// NewQueryTracer routes pgx query tracing through zerolog. Queries are
// logged at debug level, so the logger level decides whether they show up.
func NewQueryTracer(logger zerolog.Logger) *tracelog.TraceLog {
	return &tracelog.TraceLog{
		Logger:   zerologadapter.NewLogger(logger.With().Str("component", "pgx").Logger()),
		LogLevel: tracelog.LogLevelDebug,
	}
}
