// Package server implements the optional Diagnostics HTTP Service
// (SPEC_FULL.md §2 component 11): a small chi-routed API exposing the same
// rewrite transform the CLI runs, for callers that want to trigger a
// rewrite without spawning a process per invocation. It never executes a
// workflow; it only drives the transform and reports results or errors.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wtsi-hgi/unjsify-go/internal/logging"
)

// Server is the unjsify diagnostics HTTP service.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	startTime time.Time
}

// New creates a Server with all routes registered.
func New(logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logging.Component(logger, "server"),
		startTime: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Get("/", s.handleStatus)
	r.Get("/healthz", s.handleHealthz)
	r.Post("/rewrite", s.handleRewrite)
}
