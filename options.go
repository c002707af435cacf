package bugboard

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/jpalmerr/bugboard/bugs"
)

// bbConfig holds mutable state during BugBoard construction.
type bbConfig struct {
	title           string
	port            int
	logger          *slog.Logger
	seed            []bugs.Bug
	registry        *prometheus.Registry
	tracerProvider  trace.TracerProvider
	changeCallbacks []func(Change)
}

// Option is a function that configures a [BugBoard] instance during construction.
//
// Options return an error if validation fails.
//
// Built-in options: [WithTitle], [WithPort], [WithLogger], [WithSeed],
// [WithRegistry], [WithTracerProvider], [WithChangeCallback].
type Option func(*bbConfig) error

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, defaults to "BugBoard".
func WithTitle(title string) Option {
	return func(cfg *bbConfig) error {
		cfg.title = title
		return nil
	}
}

// WithPort sets the HTTP port for the bug server.
//
// The REST API and dashboard will be available at http://localhost:<port>.
// Defaults to 8080. Port 0 picks a free port; see [BugBoard.Addr].
//
// Returns an error if the port is outside the valid range (0-65535).
func WithPort(port int) Option {
	return func(cfg *bbConfig) error {
		if port < 0 || port > 65535 {
			return errors.New("port must be between 0 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the server and for stores built
// by [BugBoard.NewStore]. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *bbConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithSeed adds bugs that are created in the repository when the server
// starts. IDs on seed bugs are ignored; the repository assigns them.
//
// Can be called multiple times; seeds are created in order.
func WithSeed(seed ...bugs.Bug) Option {
	return func(cfg *bbConfig) error {
		cfg.seed = append(cfg.seed, seed...)
		return nil
	}
}

// WithRegistry sets the Prometheus registry that store and HTTP metrics are
// registered with and that GET /metrics serves. Defaults to a new registry.
//
// Returns an error if the registry is nil.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(cfg *bbConfig) error {
		if reg == nil {
			return errors.New("registry cannot be nil")
		}
		cfg.registry = reg
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider used by stores
// built with [BugBoard.NewStore]. Defaults to the global provider.
//
// Returns an error if the provider is nil.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(cfg *bbConfig) error {
		if provider == nil {
			return errors.New("tracer provider cannot be nil")
		}
		cfg.tracerProvider = provider
		return nil
	}
}

// WithChangeCallback registers a function to be called for every change to
// the server's bug repository.
//
// Multiple callbacks may be registered; they execute in registration order.
//
// IMPORTANT: Callbacks must be non-blocking. They are invoked synchronously
// from a single goroutine, and a slow callback causes later changes to be
// dropped once the subscription buffer fills. Panics within callbacks are
// recovered and logged.
//
// Nil callbacks are silently ignored.
func WithChangeCallback(cb func(Change)) Option {
	return func(cfg *bbConfig) error {
		if cb == nil {
			return nil
		}
		cfg.changeCallbacks = append(cfg.changeCallbacks, cb)
		return nil
	}
}
