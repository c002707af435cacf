package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/bugboard"
	"github.com/jpalmerr/bugboard/bugs"
)

const banner = `
  BugBoard demo

  Dashboard:  http://localhost:8080
  REST API:   http://localhost:8080/bugs
  Metrics:    http://localhost:8080/metrics

  A simulated team files, assigns and fixes bugs every few seconds
  through a store wired to the server. Press Ctrl+C to stop.

`

func main() {
	logger := slog.Default()

	bb, err := bugboard.New(
		bugboard.WithTitle("BugBoard Demo"),
		bugboard.WithPort(8080),
		bugboard.WithSeed(
			bugs.Bug{Description: "crash on save", UserID: 1},
			bugs.Bug{Description: "typo on login page"},
		),
		bugboard.WithChangeCallback(func(c bugboard.Change) {
			logger.Info("bug changed", "kind", c.Kind, "id", c.Bug.ID, "resolved", c.Bug.Resolved)
		}),
	)
	if err != nil {
		slog.Error("failed to create bugboard", "error", err)
		os.Exit(1)
	}

	fmt.Print(banner)

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		// give the server a moment to listen
		time.Sleep(200 * time.Millisecond)
		if err := simulateTeam(ctx, bb, "http://localhost:8080", logger); err != nil {
			logger.Error("simulation stopped", "error", err)
		}
	}()

	if err := bb.Start(ctx); err != nil {
		slog.Error("bugboard error", "error", err)
		os.Exit(1)
	}
}
