// Package server exposes stepping sessions over HTTP.
//
// Clients create a session from generation options (or an uploaded maze
// document), advance it one or more expansions at a time and fetch the
// frame of the latest step:
//
//	POST   /sessions                   create; returns id, maze and status
//	GET    /sessions/{id}              status: state, steps, open set, best
//	POST   /sessions/{id}/step?n=1     advance up to n expansions
//	GET    /sessions/{id}/frame.{fmt}  render the latest frame (svg, png, ...)
//	DELETE /sessions/{id}              drop the session
//	GET    /healthz                    liveness
//	GET    /metrics                    Prometheus, when configured
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/labyrinth/pkg/buildinfo"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
	"github.com/matzehuels/labyrinth/pkg/session"
)

// maxBodyBytes bounds request bodies. An uploaded 512x512 maze document
// fits comfortably.
const maxBodyBytes = 4 << 20

// Config wires the server's backends.
type Config struct {
	// Runner generates mazes and renders frames. Defaults to an uncached runner.
	Runner *pipeline.Runner

	// Sessions holds live sessions. Defaults to an unbounded memory store.
	Sessions session.Store

	// TTL is the idle lifetime of a session. Defaults to session.DefaultTTL.
	TTL time.Duration

	// Defaults seed every create request before the body is applied.
	Defaults pipeline.Options

	// Metrics, if set, is served at /metrics.
	Metrics http.Handler

	Logger *log.Logger
}

// Server is the HTTP API. It implements http.Handler.
type Server struct {
	runner   *pipeline.Runner
	sessions session.Store
	ttl      time.Duration
	defaults pipeline.Options
	logger   *log.Logger
	router   chi.Router
}

// New builds the router.
func New(cfg Config) *Server {
	s := &Server{
		runner:   cfg.Runner,
		sessions: cfg.Sessions,
		ttl:      cfg.TTL,
		defaults: cfg.Defaults,
		logger:   cfg.Logger,
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, nil, nil)
	}
	if s.sessions == nil {
		s.sessions = session.NewMemoryStore(0)
	}
	if s.ttl <= 0 {
		s.ttl = session.DefaultTTL
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleStatus)
			r.Delete("/", s.handleDelete)
			r.Post("/step", s.handleStep)
			r.Get("/frame.{format}", s.handleFrame)
		})
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the session store, for background cleanup.
func (s *Server) Sessions() session.Store { return s.sessions }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
