// Package server provides HTTP server initialization and management.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coveytown/townserver/internal/application/container"
	"github.com/coveytown/townserver/internal/presentation/http/routes"
	"github.com/coveytown/townserver/pkg/config"
)

// Server wraps the HTTP server with configuration and dependency injection.
type Server struct {
	httpServer *http.Server
	container  *container.Container
}

// New creates a new HTTP server instance with dependency injection. The
// server must also carry GET /socket, which hijacks the connection into a
// long-lived websocket pump (internal/presentation/socket) and manages its
// own read/write deadlines (writeWait/pongWait, defined in hub.go). A blanket
// http.Server.WriteTimeout would be reset by net/http on every write and
// would eventually cut off that connection out from under the pump, so it
// is left unset here; ReadHeaderTimeout bounds only the time to read
// request headers (REST and the /socket upgrade alike) without touching
// the hijacked connection's later lifetime, and IdleTimeout still bounds
// keep-alive REST connections between requests.
func New(port string, container *container.Container) *Server {
	router := routes.SetupRoutes(container)

	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: config.ServerReadTimeout,
		IdleTimeout:       config.ServerIdleTimeout,
	}

	return &Server{
		httpServer: httpServer,
		container:  container,
	}
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.container.Logger.HTTP().Info("starting HTTP server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.container.Logger.HTTP().Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
