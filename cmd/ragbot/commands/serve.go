// ABOUTME: CLI command to run the HTTP chat server
// ABOUTME: Starts echo with graceful shutdown on SIGINT/SIGTERM
package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uniqlabs/ragbot/internal/server"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP chat server",
		Long: `Run the RAG chat HTTP server.

Exposes POST /api/chat, GET /health, GET /metrics, and the static chat
frontend when a static/ directory exists. The vector index is rebuilt
lazily on the first question.

Examples:
  ragbot serve
  PORT=9000 ragbot serve`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env for endpoint settings and API keys
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	engine, cfg, err := buildEngine(logger)
	if err != nil {
		return err
	}

	srv := server.New(cfg, engine, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
