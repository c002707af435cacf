package bugboard

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jpalmerr/bugboard/bugs"
	"github.com/jpalmerr/bugboard/dashboard"
	"github.com/jpalmerr/bugboard/internal/api"
	"github.com/jpalmerr/bugboard/internal/metrics"
	"github.com/jpalmerr/bugboard/internal/repository"
	"github.com/jpalmerr/bugboard/internal/server"
	"github.com/jpalmerr/bugboard/internal/tracing"
	"github.com/jpalmerr/bugboard/store"
)

const defaultPort = 8080

// ChangeKind names what happened to a bug on the server.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Change describes one write to the server's bug repository.
type Change struct {
	Kind ChangeKind
	Bug  bugs.Bug
}

// BugBoard runs the bug server and builds instrumented stores.
//
// BugBoard is created using [New] with functional options and started with
// [BugBoard.Start]. The typical lifecycle is:
//
//	bb, err := bugboard.New(bugboard.WithPort(8080))
//	if err != nil {
//	    slog.Error("failed to create bugboard", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	bb.Start(ctx) // blocks until context cancelled
//
// Stores built by [BugBoard.NewStore] share the BugBoard's logger, metrics
// registry and tracer provider.
type BugBoard struct {
	title           string
	port            int
	logger          *slog.Logger
	seed            []bugs.Bug
	registry        *prometheus.Registry
	storeObserver   *metrics.StoreObserver
	httpMetrics     *metrics.HTTPMetrics
	storeTracer     *tracing.StoreTracer
	changeCallbacks []func(Change)

	mu   sync.Mutex
	addr net.Addr
}

// New creates a new [BugBoard] instance with the given options.
//
// Defaults:
//   - Port: 8080
//   - Logger: slog.Default()
//   - Metrics: a fresh Prometheus registry
//   - Tracing: the global OpenTelemetry tracer provider
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*BugBoard, error) {
	cfg := &bbConfig{
		port: defaultPort,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := cfg.registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	var tracerOpts []tracing.Option
	if cfg.tracerProvider != nil {
		tracerOpts = append(tracerOpts, tracing.WithTracerProvider(cfg.tracerProvider))
	}

	return &BugBoard{
		title:           cfg.title,
		port:            cfg.port,
		logger:          logger,
		seed:            cfg.seed,
		registry:        registry,
		storeObserver:   metrics.NewStoreObserver(registry),
		httpMetrics:     metrics.NewHTTPMetrics(registry),
		storeTracer:     tracing.NewStoreTracer(tracerOpts...),
		changeCallbacks: cfg.changeCallbacks,
	}, nil
}

// NewStore creates a store for the bugs feature, instrumented with the
// BugBoard's logger, Prometheus metrics and OpenTelemetry tracing.
//
// The store starts unset; see [store.Store.Ready].
func (bb *BugBoard) NewStore() (*store.Store[bugs.State], error) {
	return store.New(bugs.Reducer,
		store.WithLogger(bb.logger),
		store.WithObserver(bb.storeObserver),
		store.WithObserver(bb.storeTracer),
	)
}

// Start seeds the bug repository and serves the REST API, change streams,
// metrics and dashboard.
//
// Start is a blocking call that runs until the provided context is cancelled.
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails
// to start.
func (bb *BugBoard) Start(ctx context.Context) error {
	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	repo := repository.NewMemoryRepository()

	// subscribe before seeding so callbacks observe the seed as creates
	var wg sync.WaitGroup
	var changes <-chan repository.Change
	if len(bb.changeCallbacks) > 0 {
		changes = repo.Subscribe()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for change := range changes {
				public := toPublicChange(change)
				for _, cb := range bb.changeCallbacks {
					invokeCallbackSafe(cb, public, bb.logger)
				}
			}
		}()
	}

	// cleanup closes the subscription and waits for pending callbacks
	cleanup := func() {
		if changes != nil {
			repo.Unsubscribe(changes)
		}
		wg.Wait()
	}

	for _, b := range bb.seed {
		repo.Create(repository.Bug{
			Description: b.Description,
			UserID:      b.UserID,
			Resolved:    b.Resolved,
		})
	}

	httpServer := server.NewServer(repo, bb.port, dashboard.Assets, bb.title, bb.logger,
		server.WithHTTPMetrics(bb.httpMetrics),
		server.WithMetricsHandler(metrics.Handler(bb.registry)),
	)
	if err := httpServer.Start(ctx); err != nil {
		cleanup()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	bb.mu.Lock()
	bb.addr = httpServer.Addr()
	bb.mu.Unlock()

	bb.logger.Info("bugboard started",
		"url", fmt.Sprintf("http://localhost:%d", bb.listenPort()),
		"seeded", len(bb.seed),
	)

	<-ctx.Done()
	cleanup()
	bb.logger.Info("bugboard stopped")
	return nil
}

// Addr returns the address the server is listening on, or nil if it has
// not started.
func (bb *BugBoard) Addr() net.Addr {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	return bb.addr
}

// Port returns the configured HTTP port.
func (bb *BugBoard) Port() int {
	return bb.port
}

// Registry returns the Prometheus registry holding the BugBoard's metrics.
func (bb *BugBoard) Registry() *prometheus.Registry {
	return bb.registry
}

func (bb *BugBoard) listenPort() int {
	if tcp, ok := bb.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return bb.port
}

// NewAPIClient returns a [bugs.API] backed by the bug server at baseURL.
// A timeout of zero keeps the client's default of 10 seconds per request.
func NewAPIClient(baseURL string, timeout time.Duration) (bugs.API, error) {
	var opts []api.Option
	if timeout > 0 {
		opts = append(opts, api.WithTimeout(timeout))
	}
	client, err := api.NewClient(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// toPublicChange converts a repository change to the public API type.
func toPublicChange(c repository.Change) Change {
	return Change{
		Kind: ChangeKind(c.Kind),
		Bug: bugs.Bug{
			ID:          c.Bug.ID,
			Description: c.Bug.Description,
			UserID:      c.Bug.UserID,
			Resolved:    c.Bug.Resolved,
		},
	}
}

// invokeCallbackSafe calls a change callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(Change), change Change, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("change callback panicked",
				"panic", r,
				"kind", change.Kind,
				"bug_id", change.Bug.ID,
			)
		}
	}()
	cb(change)
}
