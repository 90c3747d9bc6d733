// Package server exposes floorplan over HTTP.
//
// Routes:
//
//	GET    /presets.json                           built-in room presets
//	POST   /api/layout                             generate (JSON result, or ?format=svg|pdf|png|dot|graph)
//	POST   /api/validate                           area check only
//	POST   /api/sessions                           generate and open an editing session
//	GET    /api/sessions/{id}                      session state
//	DELETE /api/sessions/{id}                      close a session
//	PATCH  /api/sessions/{id}/rooms/{roomID}       move/resize one room
//	POST   /api/sessions/{id}/regenerate           discard edits and re-run placement
//	GET    /api/sessions/{id}/render.{format}      render the current layout
//	GET    /health/live, /health/ready, /version
//
// Request bodies are JSON unless the Content-Type names another supported
// encoding (text/x-floorplan for .plan, application/toml, application/yaml).
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

	"github.com/matzehuels/floorplan/pkg/pipeline"
	"github.com/matzehuels/floorplan/pkg/plan"
	"github.com/matzehuels/floorplan/pkg/session"
)

const (
	maxBodyBytes    = 1 << 20
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
	cleanupInterval = 5 * time.Minute
)

// Options configures [New].
type Options struct {
	// Runner generates and renders layouts. Nil uses a runner with the
	// built-in catalogue and no cache.
	Runner *pipeline.Runner

	// Sessions stores editing sessions. Nil uses a [session.MemoryStore].
	Sessions session.Store

	// SessionTTL bounds session lifetime (zero for [session.DefaultTTL]).
	SessionTTL time.Duration

	// Defaults fills request fields before validation, e.g. a configured
	// wall thickness.
	Defaults func(*plan.Request)

	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	sessions session.Store
	ttl      time.Duration
	defaults func(*plan.Request)
	logger   *log.Logger
	router   chi.Router
}

// New creates a server and registers its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, nil, opts.Logger)
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewMemoryStore()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	s := &Server{
		runner:   opts.Runner,
		sessions: opts.Sessions,
		ttl:      opts.SessionTTL,
		defaults: opts.Defaults,
		logger:   opts.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/presets.json", s.handlePresets)
	r.Get("/version", s.handleVersion)
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", s.handleLive)
		r.Get("/ready", s.handleReady)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/validate", s.handleValidate)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Patch("/rooms/{roomID}", s.handlePatchRoom)
				r.Post("/regenerate", s.handleRegenerate)
				r.Get("/render.{format}", s.handleRenderSession)
			})
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx ends, then shuts down gracefully.
// Expired sessions are swept periodically while serving.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepSessions(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			} else if n > 0 {
				s.logger.Debug("expired sessions removed", "count", n)
			}
		}
	}
}

// logRequests logs one line per request at debug level, errors at warn.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if ww.Status() >= http.StatusInternalServerError {
			s.logger.Warn("request failed", fields...)
			return
		}
		s.logger.Debug("request", fields...)
	})
}
