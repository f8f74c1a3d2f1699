// Package api exposes the monitoring store over a JSON REST surface.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nla-gaming/revmon/internal/domain"
)

// Server represents the HTTP API server.
type Server struct {
	router  *chi.Mux
	handler *Handler
	server  *http.Server
	config  domain.ServerConfig
}

// NewServer creates a new API server.
func NewServer(cfg *domain.Config, repo domain.Repository, cache domain.Cache, version string) *Server {
	handler := NewHandler(repo, cache, cfg.Reporting, version)
	router := chi.NewRouter()

	// Global middleware stack
	router.Use(CORSMiddleware)         // CORS for the dashboard
	router.Use(RecoverMiddleware)      // Recover from panics
	router.Use(TracingMiddleware)      // OpenTelemetry tracing
	router.Use(LoggingMiddleware)      // Request logging
	router.Use(middleware.RealIP)      // Extract real IP
	router.Use(middleware.Compress(5)) // Gzip compression
	if cfg.RateLimit.Enabled {
		router.Use(RateLimitMiddleware(cache, cfg.RateLimit.RequestsPerMinute))
	}

	router.Get("/", handler.Index)
	router.Get("/health", handler.Health)

	// Operator registry
	router.Get("/operators", handler.ListOperators)
	router.Get("/operators/{id}", handler.GetOperator)

	// Revenue reports
	router.Get("/reports", handler.ListReports)
	router.Get("/reports/{id}", handler.GetReport)
	router.Get("/anomalies", handler.ListAnomalies)
	router.Get("/anomaly-types", handler.AnomalyTypes)

	// Wagering transactions
	router.Get("/transactions", handler.ListTransactions)

	// Dashboard aggregate
	router.Get("/stats", handler.Stats)

	// Unrecognized routes fall back to a not-found envelope.
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
	})

	return &Server{
		router:  router,
		handler: handler,
		config:  cfg.Server,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Handler returns the handler for testing.
func (s *Server) Handler() *Handler {
	return s.handler
}
