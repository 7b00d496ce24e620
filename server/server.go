// Package server exposes the template engine over HTTP: validation and
// preview endpoints, the macro catalog, persisted configurations, and a
// WebSocket channel that streams debounced live previews as a client types.
package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/promptloom/promptloom/logger"
	"github.com/promptloom/promptloom/macros"
	"github.com/promptloom/promptloom/prompt"
	"github.com/promptloom/promptloom/store"
)

// Server wires the engine's pieces behind an HTTP mux.
type Server struct {
	db       *sql.DB
	registry *macros.Registry
	resolver *prompt.Resolver
	configs  *store.ConfigStore
	logger   *zap.SugaredLogger

	httpServer *http.Server
}

// NewServer creates a server over an opened, migrated database.
func NewServer(db *sql.DB, registry *macros.Registry, log *zap.SugaredLogger) *Server {
	return &Server{
		db:       db,
		registry: registry,
		resolver: prompt.NewResolver(registry),
		configs:  store.NewConfigStore(db),
		logger:   log,
	}
}

// Routes returns the server's HTTP mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/template/validate", s.handleValidate)
	mux.HandleFunc("/api/template/preview", s.handlePreview)
	mux.HandleFunc("/api/macros", s.handleMacros)
	mux.HandleFunc("/api/configs", s.handleConfigs)
	mux.HandleFunc("/api/configs/", s.handleConfigByName)
	mux.HandleFunc("/ws/preview", s.handlePreviewSocket)

	return mux
}

// Start begins serving on addr and blocks until the listener fails or the
// server is shut down.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Infow("Server listening",
		logger.FieldAddress, addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
