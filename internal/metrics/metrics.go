// Package metrics provides Prometheus instrumentation for the store and the
// bug server.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jpalmerr/bugboard/store"
)

const defaultNamespace = "bugboard"

// config holds metric naming settings.
type config struct {
	namespace   string
	constLabels prometheus.Labels
}

// Option configures metric naming.
type Option func(*config)

// WithNamespace sets the metrics namespace (default: "bugboard").
func WithNamespace(namespace string) Option {
	return func(c *config) {
		c.namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *config) {
		c.constLabels = labels
	}
}

func newConfig(opts []Option) config {
	c := config{namespace: defaultNamespace}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// StoreObserver implements store.Observer with Prometheus metrics.
type StoreObserver struct {
	dispatches     *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	listenerPanics *prometheus.CounterVec
}

var _ store.Observer = (*StoreObserver)(nil)

// NewStoreObserver registers store metrics with reg.
//
// Panics if the metrics are already registered with reg, as promauto does.
func NewStoreObserver(reg prometheus.Registerer, opts ...Option) *StoreObserver {
	c := newConfig(opts)
	factory := promauto.With(reg)

	return &StoreObserver{
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   c.namespace,
			Subsystem:   "store",
			Name:        "dispatches_total",
			Help:        "Total number of dispatched actions",
			ConstLabels: c.constLabels,
		}, []string{"action_type", "outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   c.namespace,
			Subsystem:   "store",
			Name:        "dispatch_duration_seconds",
			Help:        "Time spent handling an action, including thunk network calls",
			ConstLabels: c.constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"action_type"}),

		listenerPanics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   c.namespace,
			Subsystem:   "store",
			Name:        "listener_panics_total",
			Help:        "Total number of recovered listener panics",
			ConstLabels: c.constLabels,
		}, []string{"action_type"}),
	}
}

// ObserveDispatch implements store.Observer.
func (o *StoreObserver) ObserveDispatch(ctx context.Context, action store.Action) (context.Context, func(error)) {
	start := time.Now()
	actionType := action.ActionType()

	return ctx, func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		o.dispatches.WithLabelValues(actionType, outcome).Inc()
		o.duration.WithLabelValues(actionType).Observe(time.Since(start).Seconds())
	}
}

// ObserveListenerPanic implements store.Observer.
func (o *StoreObserver) ObserveListenerPanic(_ context.Context, action store.Action, _ string) {
	o.listenerPanics.WithLabelValues(action.ActionType()).Inc()
}

// HTTPMetrics records request counts and latencies for chi routes.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers HTTP metrics with reg.
func NewHTTPMetrics(reg prometheus.Registerer, opts ...Option) *HTTPMetrics {
	c := newConfig(opts)
	factory := promauto.With(reg)

	return &HTTPMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   c.namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: c.constLabels,
		}, []string{"method", "route", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   c.namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: c.constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Middleware records every request. Routes are labelled by their chi pattern
// (e.g. "/bugs/{id}") to keep label cardinality bounded.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
