// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	POST /v1/documents/{type}   job record JSON in, PDF (or ?format=json) out
//	POST /v1/financials         job record JSON in, computed figures out
//	GET  /healthz               liveness
//	GET  /metrics               Prometheus exposition
//
// Every request runs against one shared [pipeline.Runner]; the server holds
// no per-request state of its own.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/usawrapco/wrapdoc/pkg/integrations/reviews"
	"github.com/usawrapco/wrapdoc/pkg/observability"
	"github.com/usawrapco/wrapdoc/pkg/pipeline"
)

const (
	// DefaultMaxBodySize caps job record uploads.
	DefaultMaxBodySize = 1 << 20

	requestTimeout  = 60 * time.Second
	shutdownTimeout = 15 * time.Second
)

// Options configures a [Server]. Zero values select defaults.
type Options struct {
	Addr        string
	MaxBodySize int64

	// Metrics backs GET /metrics and request instrumentation. Nil disables
	// both.
	Metrics *observability.Metrics

	// Reviews is attached to every request so renders print the current
	// review count.
	Reviews *reviews.Lookup

	Logger *log.Logger
}

// Server serves documents rendered by a shared runner.
type Server struct {
	runner  *pipeline.Runner
	metrics *observability.Metrics
	reviews *reviews.Lookup
	logger  *log.Logger
	addr    string
	maxBody int64
}

// New creates a server around runner.
func New(runner *pipeline.Runner, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = DefaultMaxBodySize
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{
		runner:  runner,
		metrics: opts.Metrics,
		reviews: opts.Reviews,
		logger:  opts.Logger,
		addr:    opts.Addr,
		maxBody: opts.MaxBodySize,
	}
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(s.instrument)
	r.Use(s.withReviews)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/documents/{type}", s.handleDocument)
		r.Post("/financials", s.handleFinancials)
	})

	return r
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
