// Package server exposes slide rule sessions over HTTP.
//
// Clients create a session from an instrument description, move the slide
// and cursor, read the scales under the hairline and fetch renders of the
// current state:
//
//	POST   /sessions                     create (body: optional instrument TOML)
//	GET    /sessions/{id}                layout, labels and readings
//	PUT    /sessions/{id}/slide          {"position": 120}
//	PUT    /sessions/{id}/cursor         {"position": 300}
//	PUT    /sessions/{id}/developer-mode {"enabled": true}
//	POST   /sessions/{id}/reset          return the slide to zero
//	GET    /sessions/{id}/render.{fmt}   svg, png, pdf or json
//	DELETE /sessions/{id}
//	GET    /divisions                    division registry and rule sets
//	GET    /healthz
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sliderule/pkg/pipeline"
	"github.com/matzehuels/sliderule/pkg/session"
)

// Defaults.
const (
	DefaultMaxBodyBytes    = 1 << 20
	DefaultCleanupInterval = time.Minute
	DefaultRequestTimeout  = 30 * time.Second
	shutdownTimeout        = 10 * time.Second
)

// Server serves the slide rule API.
type Server struct {
	store           *session.Store
	runner          *pipeline.Runner
	logger          *log.Logger
	maxBodyBytes    int64
	cleanupInterval time.Duration
	router          chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithStore sets the session store.
func WithStore(s *session.Store) Option { return func(srv *Server) { srv.store = s } }

// WithRunner sets the render pipeline runner, and with it the artifact cache.
func WithRunner(r *pipeline.Runner) Option { return func(srv *Server) { srv.runner = r } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(srv *Server) {
		if l != nil {
			srv.logger = l
		}
	}
}

// WithMaxBodyBytes bounds request bodies.
func WithMaxBodyBytes(n int64) Option { return func(srv *Server) { srv.maxBodyBytes = n } }

// WithCleanupInterval sets how often expired sessions are removed.
func WithCleanupInterval(d time.Duration) Option {
	return func(srv *Server) { srv.cleanupInterval = d }
}

// New creates a server. Missing dependencies get in-memory defaults: a
// session store with the default TTL and an uncached runner.
func New(opts ...Option) *Server {
	s := &Server{
		logger:          log.Default(),
		maxBodyBytes:    DefaultMaxBodyBytes,
		cleanupInterval: DefaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = session.NewStore()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Store returns the session store.
func (s *Server) Store() *session.Store { return s.store }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(DefaultRequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/divisions", s.handleDivisions)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Put("/slide", s.handleSlide)
			r.Put("/cursor", s.handleCursor)
			r.Put("/developer-mode", s.handleDeveloperMode)
			r.Post("/reset", s.handleReset)
			r.Get("/render.{format}", s.handleRender)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, s.logger, notFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("METHOD_NOT_ALLOWED", r.Method+" is not allowed on "+r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are cleaned up in the background meanwhile.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.store.Run(ctx, s.cleanupInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "session_ttl", s.store.TTL())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
