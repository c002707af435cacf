package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a bugboard configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  bugboard validate -c config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if path, _ := cmd.Flags().GetString("config"); path == "" {
		return fmt.Errorf("--config is required")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	cacheTTL := "never expires"
	if cfg.CacheTTL.Duration() > 0 {
		cacheTTL = cfg.CacheTTL.Duration().String()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Port:        %d\n", cfg.Port)
	fmt.Fprintf(out, "  Log level:   %s\n", cfg.LogLevel)
	fmt.Fprintf(out, "  API:         %s (timeout %s)\n", cfg.API.BaseURL, cfg.API.Timeout.Duration())
	fmt.Fprintf(out, "  Cache TTL:   %s\n", cacheTTL)
	fmt.Fprintf(out, "  Seed bugs:   %d\n", len(cfg.Seed))

	return nil
}
