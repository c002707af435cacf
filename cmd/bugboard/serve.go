package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/bugboard"
	"github.com/jpalmerr/bugboard/config"
)

const shutdownTimeout = 10 * time.Second

// serveCmd starts the bug server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bug server and dashboard",
	Long: `Start the bug server.

The server will:
  - Load configuration from the specified YAML file (or use defaults)
  - Create the seed bugs
  - Serve the REST API, live change streams, /metrics and the dashboard

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  bugboard serve
  bugboard serve -c /etc/bugboard/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cmd, cfg)
	logger.Info("config loaded", "port", cfg.Port, "seed", len(cfg.Seed), "log_level", cfg.LogLevel)

	bb, err := bugboard.New(config.BuildOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create bugboard: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- bb.Start(ctx) }()

	return awaitShutdown(ctx, done, logger)
}

// awaitShutdown waits for Start to return. Once ctx is cancelled Start gets
// shutdownTimeout to drain before the command gives up on it.
func awaitShutdown(ctx context.Context, done <-chan error, logger *slog.Logger) error {
	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		timer := time.NewTimer(shutdownTimeout)
		defer timer.Stop()
		select {
		case err = <-done:
		case <-timer.C:
			logger.Warn("bugboard did not stop in time", "timeout", shutdownTimeout.String())
			return nil
		}
	}

	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
