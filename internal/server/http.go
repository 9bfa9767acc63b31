package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

const (
	allowHeaders = "Content-Type,Authorization,true"
	allowMethods = "GET,PUT,POST,DELETE,OPTIONS"
	pingTimeout  = 3 * time.Second
)

// Dependency is an upstream checked by /ping.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

// NewHTTPServer wraps NewRouter in an http.Server bound to cfg.HTTPAddr.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, triviaHandler *trivia.HTTPHandler, deps ...Dependency) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, logger, triviaHandler, deps...),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter wires base routes (health, ping, metrics) and the trivia API.
func NewRouter(cfg *config.App, logger zerolog.Logger, triviaHandler *trivia.HTTPHandler, deps ...Dependency) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(recoverer)
	r.Use(instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
		AllowedMethods:     []string{"GET", "PUT", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:             cfg.CORS.MaxAge,
		OptionsPassthrough: true,
	}))
	r.Use(accessControl)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondNotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondMethodNotAllowed(w)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := pingDependencies(ctx, deps); err != nil {
			reqLogger := logging.FromContext(r.Context())
			reqLogger.Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondError(w, http.StatusBadGateway, "upstream error")
			return
		}
		httperrors.RespondJSON(w, http.StatusOK, map[string]bool{"pong": true})
	})

	r.Handle("/metrics", promhttp.Handler())

	if triviaHandler != nil {
		triviaHandler.Routes(r)
	}

	return r
}

// accessControl stamps the access-control headers on every response and
// answers preflight requests once the CORS middleware has run.
func accessControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		w.Header().Set("Access-Control-Allow-Methods", allowMethods)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverer turns a panicking handler into the JSON 500 response.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger := logging.FromContext(r.Context())
				logger.Error().
					Interface("panic", rec).
					Msg("handler panicked")
				httperrors.RespondInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func pingDependencies(ctx context.Context, deps []Dependency) error {
	for _, dep := range deps {
		if err := dep.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", dep.Name, err)
		}
	}
	return nil
}
