// Package config provides YAML configuration parsing for the bugboard binary.
//
// Example configuration:
//
//	title: Team Bugs
//	port: 8080
//	log_level: info
//
//	api:
//	  base_url: ${BUGBOARD_API:-http://localhost:8080}
//	  timeout: 5s
//	  headers:
//	    Authorization: Bearer ${BUGBOARD_TOKEN}
//
//	cache_ttl: 30s
//
//	seed:
//	  - description: crash on save
//	    user_id: 1
//	  - description: typo on login page
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort       = 8080
	defaultLogLevel   = "info"
	defaultAPITimeout = 10 * time.Second

	// minAPITimeout keeps a misconfigured timeout from failing every request.
	minAPITimeout = 100 * time.Millisecond
)

// Config is the root configuration structure.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "BugBoard" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// LogLevel is one of debug, info, warn or error. Defaults to info.
	LogLevel string `yaml:"log_level"`

	// API configures the client used by the demo's asynchronous actions.
	API APIConfig `yaml:"api"`

	// CacheTTL is how long a fetched bug list stays fresh. Zero means the
	// list is fetched at most once.
	CacheTTL Duration `yaml:"cache_ttl"`

	// Seed lists bugs created when the server starts.
	Seed []SeedBug `yaml:"seed"`
}

// APIConfig configures the bug server client.
type APIConfig struct {
	// BaseURL is the bug server root. Defaults to http://localhost:<port>.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-request timeout. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// Headers are sent with every request.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`
}

// SeedBug is a bug created at server start.
type SeedBug struct {
	Description string `yaml:"description"`
	UserID      int    `yaml:"user_id"`
	Resolved    bool   `yaml:"resolved"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// SlogLevel returns the configured log level as a [slog.Level].
// Parse has already validated the value.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in the API base URL and header values.
// Defaults are applied for Port (8080), LogLevel (info), API.BaseURL
// (http://localhost:<port>) and API.Timeout (10s). An empty document is a
// valid configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = Duration(defaultAPITimeout)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}

	if err := c.API.expandAndValidate(c.Port); err != nil {
		return err
	}

	if c.CacheTTL.Duration() < 0 {
		return fmt.Errorf("cache_ttl cannot be negative, got %s", c.CacheTTL.Duration())
	}

	for i, s := range c.Seed {
		if strings.TrimSpace(s.Description) == "" {
			return fmt.Errorf("seed[%d]: description is required", i)
		}
		if s.UserID < 0 {
			return fmt.Errorf("seed[%d]: user_id cannot be negative, got %d", i, s.UserID)
		}
	}

	return nil
}

func (a *APIConfig) expandAndValidate(port int) error {
	if a.BaseURL == "" {
		a.BaseURL = fmt.Sprintf("http://localhost:%d", port)
	}

	expanded, err := expandEnvVars(a.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	a.BaseURL = expanded

	parsedURL, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: invalid url: %w", err)
	}
	if parsedURL.Scheme == "" {
		return fmt.Errorf("api.base_url must have a scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("api.base_url scheme must be http or https, got %q", parsedURL.Scheme)
	}

	if a.Timeout.Duration() < minAPITimeout {
		return fmt.Errorf("api.timeout must be at least %s, got %s", minAPITimeout, a.Timeout.Duration())
	}

	for k, v := range a.Headers {
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("api.headers[%s]: %w", k, err)
		}
		a.Headers[k] = expanded
	}

	return nil
}
