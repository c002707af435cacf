// Package tracing provides OpenTelemetry tracing for the store.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jpalmerr/bugboard/store"
)

const instrumentationName = "github.com/jpalmerr/bugboard/store"

// StoreTracer implements store.Observer by starting a span per dispatch.
//
// Actions dispatched by a thunk receive the thunk's context, so their spans
// are children of the thunk's span.
type StoreTracer struct {
	tracer trace.Tracer
}

var _ store.Observer = (*StoreTracer)(nil)

// Option configures a StoreTracer.
type Option func(*StoreTracer)

// WithTracerProvider sets a custom tracer provider. Defaults to the global
// provider from otel.GetTracerProvider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(t *StoreTracer) {
		t.tracer = provider.Tracer(instrumentationName)
	}
}

// NewStoreTracer creates a StoreTracer.
func NewStoreTracer(opts ...Option) *StoreTracer {
	t := &StoreTracer{
		tracer: otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ObserveDispatch implements store.Observer.
func (t *StoreTracer) ObserveDispatch(ctx context.Context, action store.Action) (context.Context, func(error)) {
	ctx, span := t.tracer.Start(ctx, "store.dispatch",
		trace.WithAttributes(attribute.String("store.action_type", action.ActionType())),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// ObserveListenerPanic implements store.Observer by adding an event to the
// span of the dispatch during which the listener panicked.
func (t *StoreTracer) ObserveListenerPanic(ctx context.Context, action store.Action, correlationID string) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("store.listener_panic", trace.WithAttributes(
		attribute.String("store.action_type", action.ActionType()),
		attribute.String("correlation_id", correlationID),
	))
}
