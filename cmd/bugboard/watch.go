package main

import (
	"context"
	"fmt"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/bugboard"
	"github.com/jpalmerr/bugboard/bugs"
	"github.com/jpalmerr/bugboard/config"
	"github.com/jpalmerr/bugboard/internal/poller"
)

const minWatchInterval = time.Second

// watchCmd keeps a store in sync with the bug server.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep a store in sync with the bug server",
	Long: `Refresh the bug list from api.base_url on an interval and print each
refresh that changes the store.

The command runs until interrupted (Ctrl+C), receives SIGTERM, or --count
refreshes have completed.

Example:
  bugboard watch -c config.yaml --interval 10s`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "time between refreshes")
	watchCmd.Flags().Int("count", 0, "stop after this many refreshes (0 runs until interrupted)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	interval, _ := cmd.Flags().GetDuration("interval")
	count, _ := cmd.Flags().GetInt("count")
	if interval < minWatchInterval {
		return fmt.Errorf("--interval must be at least %s, got %s", minWatchInterval, interval)
	}
	if count < 0 {
		return fmt.Errorf("--count cannot be negative, got %d", count)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cmd, cfg)

	bb, err := bugboard.New(config.BuildOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create bugboard: %w", err)
	}
	st, err := bb.NewStore()
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	client, err := config.BuildClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	actions, err := bugs.NewActions(client, config.BuildActionOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create actions: %w", err)
	}

	scheduler, err := poller.NewScheduler(func(ctx context.Context) error {
		return st.Dispatch(ctx, actions.RefreshBugs())
	}, interval, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler.Start(ctx)
	defer scheduler.Stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s every %s\n", cfg.API.BaseURL, interval)

	var last []bugs.Bug
	for result := range scheduler.Results() {
		state := st.GetState()
		switch {
		case result.Err != nil:
			logger.Error("refresh failed", "run", result.Run, "error", result.Err)
		case state.Error != "":
			fmt.Fprintf(out, "[%d] refresh failed: %s\n", result.Run, state.Error)
		case result.Run == 1 || !slices.Equal(last, state.List):
			fmt.Fprintf(out, "[%d] %d bugs, %d unresolved\n",
				result.Run, len(state.List), len(bugs.UnresolvedBugs(state)))
			last = state.List
		default:
			logger.Debug("refresh unchanged", "run", result.Run, "took", result.Duration)
		}

		if count > 0 && result.Run >= count {
			break
		}
	}

	return nil
}
