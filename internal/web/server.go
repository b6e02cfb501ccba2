// Package web provides the HTTP server and handlers for the table
// comparison API.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nao1215/tablediff/internal/config"
)

// Server is the HTTP server for the comparison API.
type Server struct {
	cfg    *config.Config
	store  *resultStore
	router *chi.Mux
	server *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:    cfg,
		store:  newResultStore(cfg.Upload.MaxStoredResults),
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/compare", s.handleCompare)
		r.Post("/suggest", s.handleSuggest)
		r.Get("/result/{resultID}", s.handleDownloadResult)
	})
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// writeError writes a JSON error response.
// The full error is logged server-side.
func writeError(w http.ResponseWriter, status int, message string) {
	slog.Error("request failed", "status", status, "error", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// writeJSON encodes v as JSON and writes it to w.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
