package config

import (
	"log/slog"
	"sort"

	"github.com/jpalmerr/bugboard"
	"github.com/jpalmerr/bugboard/bugs"
	"github.com/jpalmerr/bugboard/internal/api"
)

// BuildOptions converts parsed configuration into [bugboard.Option] values
// for the bug server. The logger is passed through when non-nil.
func BuildOptions(cfg *Config, logger *slog.Logger) []bugboard.Option {
	opts := []bugboard.Option{
		bugboard.WithTitle(cfg.Title),
		bugboard.WithPort(cfg.Port),
	}
	if logger != nil {
		opts = append(opts, bugboard.WithLogger(logger))
	}
	if len(cfg.Seed) > 0 {
		opts = append(opts, bugboard.WithSeed(buildSeed(cfg.Seed)...))
	}
	return opts
}

// BuildClient creates the bug server client described by cfg.API.
func BuildClient(cfg *Config) (*api.Client, error) {
	opts := []api.Option{
		api.WithTimeout(cfg.API.Timeout.Duration()),
	}

	// sort keys for deterministic ordering
	keys := make([]string, 0, len(cfg.API.Headers))
	for k := range cfg.API.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		opts = append(opts, api.WithHeader(k, cfg.API.Headers[k]))
	}

	return api.NewClient(cfg.API.BaseURL, opts...)
}

// BuildActionOptions converts parsed configuration into [bugs.Option] values
// for the asynchronous bug actions.
func BuildActionOptions(cfg *Config, logger *slog.Logger) []bugs.Option {
	opts := []bugs.Option{
		bugs.WithCacheTTL(cfg.CacheTTL.Duration()),
	}
	if logger != nil {
		opts = append(opts, bugs.WithLogger(logger))
	}
	return opts
}

// buildSeed converts seed entries to unsaved bugs.
func buildSeed(seed []SeedBug) []bugs.Bug {
	out := make([]bugs.Bug, len(seed))
	for i, s := range seed {
		out[i] = bugs.Bug{
			Description: s.Description,
			UserID:      s.UserID,
			Resolved:    s.Resolved,
		}
	}
	return out
}
