// Package server exposes the topiary HTTP API: read access to the
// taxonomy, scores and run history, and a recompute endpoint for
// scoring.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lazypower/topiary/internal/config"
	"github.com/lazypower/topiary/internal/engine"
	"github.com/lazypower/topiary/internal/store"
)

// Server is the topiary HTTP API server.
type Server struct {
	db      *store.DB
	engine  *engine.Engine
	scoring config.ScoringConfig
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server. The engine may be nil; endpoints that need
// it report 503.
func New(db *store.DB, eng *engine.Engine, scoring config.ScoringConfig, version string) *Server {
	s := &Server{
		db:      db,
		engine:  eng,
		scoring: scoring,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/taxonomy", s.handleTaxonomy)
		r.Get("/scores", s.handleScores)
		r.Get("/runs", s.handleRuns)
		r.Post("/score", s.handleScore)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}
