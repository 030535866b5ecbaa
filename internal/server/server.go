package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/y10n/internal/reloader"
	"github.com/dmitrymomot/y10n/middlewares"
	"github.com/dmitrymomot/y10n/pkg/health"
	"github.com/dmitrymomot/y10n/pkg/l10n"
)

// Reloader refreshes the store on demand.
type Reloader interface {
	ReloadNow(ctx context.Context) (reloader.Result, error)
	Status() reloader.Status
}

// Server serves merged translations.
type Server struct {
	localizer *l10n.Localizer
	reloader  Reloader
	checks    health.Checks
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithReloader enables POST /v1/reload and GET /v1/status.
func WithReloader(r Reloader) Option {
	return func(s *Server) {
		s.reloader = r
	}
}

// WithCheck adds a readiness check.
func WithCheck(name string, fn health.CheckFunc) Option {
	return func(s *Server) {
		s.checks[name] = fn
	}
}

// New creates a Server. A "translations" readiness check that fails on an
// empty store is always registered.
func New(localizer *l10n.Localizer, opts ...Option) *Server {
	s := &Server{
		localizer: localizer,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		checks:    health.Checks{},
	}
	s.checks["translations"] = storeCheck(localizer.Store())

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middlewares.RequestID(),
		middlewares.Recover(middlewares.WithRecoverLogger(s.logger)),
	)

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(s.checks, health.WithLogger(s.logger)))

	r.Group(func(r chi.Router) {
		r.Use(middlewares.Localize(s.localizer))

		r.Get("/v1/messages", s.handleMessages)
		r.Get("/v1/messages/*", s.handleMessage)
		r.Get("/preview", s.handlePreview)
	})

	r.Get("/v1/languages", s.handleLanguages)
	r.Post("/v1/reload", s.handleReload)
	r.Get("/v1/status", s.handleStatus)

	return r
}

func storeCheck(store *l10n.Store) health.CheckFunc {
	return func(context.Context) error {
		if store.Len() == 0 {
			return reloader.ErrNoDocuments
		}
		return nil
	}
}
