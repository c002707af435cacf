// Package main is the entry point for the bugboard CLI.
//
// Usage:
//
//	bugboard serve -c config.yaml    # Start the bug server and dashboard
//	bugboard demo -c config.yaml     # Drive the bugs store against a server
//	bugboard watch -c config.yaml    # Keep a store in sync with a server
//	bugboard validate -c config.yaml # Validate configuration
//	bugboard version                 # Show version info
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/bugboard/config"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "bugboard",
	Short: "A predictable state container with a live bug tracker",
	Long: `Bugboard pairs a small unidirectional-data-flow store with an HTTP
bug server.

Quick start:
  1. Run: bugboard serve
  2. In another terminal run: bugboard demo
  3. Open http://localhost:8080 to watch the bugs change live

Example config:
  title: Team Bugs
  port: 8080
  log_level: info
  api:
    base_url: http://localhost:8080
    timeout: 5s
  cache_ttl: 30s
  seed:
    - description: crash on save
      user_id: 1`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this bugboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "bugboard %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file (defaults apply when omitted)")
}

// loadConfig loads the file named by --config, or the defaults when the
// flag is empty.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Parse(nil)
	}
	return config.Load(path)
}

// newLogger creates a JSON logger on the command's stderr at the configured
// level.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}
