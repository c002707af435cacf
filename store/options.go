package store

import (
	"context"
	"errors"
	"log/slog"
)

// Observer receives notifications about dispatches.
//
// Observers are for instrumentation only (metrics, tracing). They cannot
// change actions or state.
type Observer interface {
	// ObserveDispatch is called before an action is handled. The returned
	// context is passed on to thunks; the returned func is called once with
	// the dispatch outcome.
	ObserveDispatch(ctx context.Context, action Action) (context.Context, func(err error))

	// ObserveListenerPanic is called after a listener panic was recovered.
	ObserveListenerPanic(ctx context.Context, action Action, correlationID string)
}

// storeConfig holds mutable state during Store construction.
type storeConfig struct {
	logger    *slog.Logger
	observers []Observer
}

// Option configures a [Store] during construction.
type Option func(*storeConfig) error

// WithLogger sets the logger used for dispatch, reducer and listener events.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *storeConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithObserver registers an [Observer]. May be given more than once; observers
// are notified in the order given.
func WithObserver(o Observer) Option {
	return func(cfg *storeConfig) error {
		if o == nil {
			return errors.New("observer cannot be nil")
		}
		cfg.observers = append(cfg.observers, o)
		return nil
	}
}
