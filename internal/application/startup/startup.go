// Package startup assembles the process: logging, the media-token
// broker, the town registry, the HTTP server, and graceful shutdown —
// the same sequencing the teacher's Initialize performs, trimmed down
// from multi-tenant database/cache bootstrapping to this domain's
// single in-memory registry.
package startup

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/coveytown/townserver/internal/application/container"
	"github.com/coveytown/townserver/internal/infrastructure/broker"
	"github.com/coveytown/townserver/internal/infrastructure/observability/logging"
	"github.com/coveytown/townserver/internal/presentation/http/server"
	"github.com/coveytown/townserver/pkg/config"
)

// Initialize wires the process and blocks until the server exits,
// either from an unrecoverable server error or a graceful shutdown
// signal.
func Initialize() error {
	log.Println("\033[32m" + `
   ___                  _          _____
  / __|_____ _____ _  _| |_ _____ |_   _|_____ __ ___ _
 | (__/ _ \ V / -_) || |  _/ _ \ \ / / _ \ V  V / ' \
  \___\___/\_/\___|\_, |\__\___/_/_/\___/\_/\_/|_||_|
                    |__/
` + "\033[0m")

	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("startup: failed to initialize logging: %w", err)
	}
	logger.Startup().Info("logging initialized")

	if !config.JWTKeyIsStable() {
		logger.Startup().Warn("running with an ephemeral JWT signing key; sessions will not survive a restart")
	}

	tokenBroker := broker.NewJWTBroker(config.JWTSigningKey, config.BrokerTimeout)
	appContainer := container.New(tokenBroker, logger)
	logger.Startup().Info("town registry and media-token broker wired")

	httpServer := server.New(config.Port, appContainer)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.Start()
	}()
	logger.Startup().Info("server listening", "port", config.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("startup: server error: %w", err)
	case <-ctx.Done():
		logger.Shutdown().Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	start := time.Now()
	if err := httpServer.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("startup: failed to stop server gracefully: %w", err)
	}
	logger.Shutdown().Info("server stopped gracefully", "elapsed", time.Since(start))

	return nil
}
