// Package http exposes health, readiness, and metrics endpoints plus the
// JSON API that drives the interactive assemble-edit-save flow.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quietline/dopebook/internal/dope"
)

// Server wires the HTTP routes to the merge engine.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	assembler *dope.Assembler
	saver     *dope.Saver
	staging   *dope.Registry
	store     RecordStore

	requestTimeout time.Duration
}

// NewServer creates the HTTP server with health, metrics, and API routes.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:         deps.Logger,
		assembler:      deps.Assembler,
		saver:          deps.Saver,
		staging:        deps.Staging,
		store:          deps.Store,
		requestTimeout: deps.RequestTimeout,
	}
	if s.requestTimeout <= 0 {
		s.requestTimeout = 15 * time.Second
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/staging", s.handleBeginStaging)
	mux.HandleFunc("POST /api/staging/restage", s.handleRestage)
	mux.HandleFunc("GET /api/staging/{id}", s.handleGetStaging)
	mux.HandleFunc("PUT /api/staging/{id}/sources", s.handleSelectSource)
	mux.HandleFunc("PATCH /api/staging/{id}/rows/{shot}", s.handleEditRow)
	mux.HandleFunc("POST /api/staging/{id}/save", s.handleSave)
	mux.HandleFunc("DELETE /api/staging/{id}", s.handleDiscardStaging)

	mux.HandleFunc("GET /api/chrono/sessions", s.handleListChronoSessions)
	mux.HandleFunc("GET /api/dope/sessions", s.handleListDopeSessions)
	mux.HandleFunc("GET /api/dope/sessions/{id}", s.handleGetDopeSession)
	mux.HandleFunc("DELETE /api/dope/sessions/{id}", s.handleDeleteDopeSession)

	mux.HandleFunc("POST /api/ranges", s.handleCreateRange)

	return s
}

// Deps carries the server's collaborators.
type Deps struct {
	Logger         *slog.Logger
	Assembler      *dope.Assembler
	Saver          *dope.Saver
	Staging        *dope.Registry
	Store          RecordStore
	RequestTimeout time.Duration
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
