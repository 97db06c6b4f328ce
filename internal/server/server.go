// Package server exposes the conceptree pipeline over HTTP.
//
// Routes:
//
//	POST   /v1/resolve       visible rows and display statistics of a bundle
//	POST   /v1/layout        layered layout, or a drawing with ?format=
//	POST   /v1/views         store a visibility configuration
//	GET    /v1/views/{id}    load a stored configuration
//	PUT    /v1/views/{id}    replace a stored configuration
//	DELETE /v1/views/{id}    drop a stored configuration
//	GET    /healthz          liveness
//	GET    /metrics          Prometheus metrics
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/conceptree/pkg/buildinfo"
	"github.com/matzehuels/conceptree/pkg/config"
	"github.com/matzehuels/conceptree/pkg/pipeline"
	"github.com/matzehuels/conceptree/pkg/viewstate"
)

const (
	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 32 << 20

	shutdownTimeout = 15 * time.Second
)

// Options configures a Server.
type Options struct {
	Runner   *pipeline.Runner
	Views    *viewstate.Store
	Settings *config.Settings

	// Gatherer serves /metrics; nil uses the default Prometheus registry.
	Gatherer prometheus.Gatherer
	Logger   *log.Logger
}

// Server holds the HTTP handler dependencies.
type Server struct {
	runner   *pipeline.Runner
	views    *viewstate.Store
	gatherer prometheus.Gatherer
	logger   *log.Logger
	settings atomic.Pointer[config.Settings]
	router   chi.Router
}

// New creates a server and registers all routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Settings == nil {
		opts.Settings = config.Default()
	}
	s := &Server{
		runner:   opts.Runner,
		views:    opts.Views,
		gatherer: opts.Gatherer,
		logger:   opts.Logger,
	}
	s.settings.Store(opts.Settings)
	s.router = s.routes()
	return s
}

// SetSettings swaps the settings used for request defaults. It is safe to
// call while requests are served, e.g. from a config.Loader callback.
func (s *Server) SetSettings(settings *config.Settings) {
	s.settings.Store(settings)
}

// Settings returns the current settings.
func (s *Server) Settings() *config.Settings {
	return s.settings.Load()
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/resolve", s.resolve)
		r.Post("/layout", s.layout)

		r.Route("/views", func(r chi.Router) {
			r.Post("/", s.createView)
			r.Get("/{id}", s.getView)
			r.Put("/{id}", s.putView)
			r.Delete("/{id}", s.deleteView)
		})
	})
	return r
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	cfg := s.Settings().Server
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", cfg.Addr, "version", buildinfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return err
	}
	return <-errc
}
