// Package api exposes the sync surface over HTTP: bundle pulls, overlay
// ingest, change-log replay, plus health and metrics endpoints. Handlers
// stay thin; protocol decisions live in internal/store and surface here as
// typed errors mapped to status codes.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/kestrelops/fieldsync/internal/config"
	"github.com/kestrelops/fieldsync/internal/log"
	"github.com/kestrelops/fieldsync/internal/metrics"
	"github.com/kestrelops/fieldsync/internal/store"
)

// Server serves the sync API over HTTP
type Server struct {
	store  *store.Store
	cfg    *config.Config
	logger zerolog.Logger

	// now supplies server_time; swapped in tests for a fixed clock.
	now func() time.Time

	mux  *http.ServeMux
	http *http.Server
}

// NewServer creates a new sync API server
func NewServer(st *store.Store, cfg *config.Config) *Server {
	s := &Server{
		store:  st,
		cfg:    cfg,
		logger: log.WithComponent("api"),
		now:    time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /sync", s.handleBundle)
	mux.HandleFunc("POST /sync", s.handleIngest)
	mux.HandleFunc("GET /sync/v2", s.handleReplay)
	mux.Handle("GET /metrics", metrics.Handler())
	s.mux = mux

	// Built here rather than in Start so Shutdown never races a starting
	// server.
	s.http = &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  cfg.Server.IdleTimeout.Std(),
	}

	return s
}

// Handler returns the complete handler chain, including access logging and
// request metrics.
func (s *Server) Handler() http.Handler {
	return s.withAccessLog(s.mux)
}

// Start runs the HTTP server until Shutdown is called or the listener
// fails. A closed-server return is reported as success.
func (s *Server) Start() error {
	s.logger.Info().Str("listen", s.cfg.Server.Listen).Msg("http server starting")

	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
