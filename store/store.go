package store

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Store holds application state and mediates every change through a [Reducer].
//
// Store is created with [New] and is safe for concurrent use. Plain actions
// are serialized: reduce, commit and listener notification for one action
// complete before the next plain action is reduced, so notification phases
// never interleave. [Store.GetState] takes a separate read lock and may be
// called from listeners and thunks.
//
// Listeners run while the dispatch lock is held and must not call
// [Store.Dispatch] synchronously; hand the work to another goroutine instead.
type Store[S any] struct {
	reducer   Reducer[S]
	logger    *slog.Logger
	observers []Observer

	// dispatchMu serializes reduce, commit and notify.
	dispatchMu sync.Mutex

	stateMu sync.RWMutex
	state   S
	ready   bool

	listenersMu sync.Mutex
	listeners   []subscription
	nextID      uint64
}

type subscription struct {
	id       uint64
	listener Listener
}

// New creates a [Store] that computes state with reducer.
//
// No action is dispatched on creation: [Store.GetState] returns the zero value
// of S until the first [Store.Dispatch].
//
// Returns ErrNilReducer if reducer is nil, or the error of the first invalid option.
func New[S any](reducer Reducer[S], opts ...Option) (*Store[S], error) {
	if reducer == nil {
		return nil, ErrNilReducer
	}

	cfg := &storeConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store[S]{
		reducer:   reducer,
		logger:    logger,
		observers: cfg.observers,
	}, nil
}

// GetState returns the current state.
//
// The returned value is a snapshot shared with the store and must be treated
// as read-only.
func (s *Store[S]) GetState() S {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Ready reports whether at least one action has been reduced.
func (s *Store[S]) Ready() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.ready
}

// Subscribe appends listener to the listener list and returns a function that
// removes this registration.
//
// The same listener may be subscribed more than once and is then called once
// per registration. The returned function is safe to call multiple times.
// A listener removed while a notification is in progress still receives that
// notification.
func (s *Store[S]) Subscribe(listener Listener) (unsubscribe func()) {
	if listener == nil {
		return func() {}
	}

	s.listenersMu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, listener: listener})
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

// ListenerCount returns the number of active registrations.
func (s *Store[S]) ListenerCount() int {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	return len(s.listeners)
}

func (s *Store[S]) unsubscribe(id uint64) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool {
		return sub.id == id
	})
}

// Dispatch handles an action.
//
// For a plain action Dispatch computes the next state with the reducer,
// commits it, then calls every registered listener in registration order.
// For a [Thunk] it runs the thunk and returns its result.
//
// If the reducer panics, Dispatch returns a [*ReducerError], the state is
// left unchanged and no listener is called.
func (s *Store[S]) Dispatch(ctx context.Context, action Action) error {
	if action == nil {
		return ErrNilAction
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, finish := s.observe(ctx, action)

	var err error
	switch a := action.(type) {
	case Thunk[S]:
		err = s.runThunk(ctx, a)
	default:
		err = s.reduce(ctx, action)
	}

	finish(err)
	return err
}

// runThunk invokes an asynchronous action with this store's capabilities.
func (s *Store[S]) runThunk(ctx context.Context, thunk Thunk[S]) error {
	if thunk == nil {
		return ErrNilAction
	}
	return thunk(ctx, s.Dispatch, s.GetState)
}

// reduce applies a plain action and notifies listeners.
func (s *Store[S]) reduce(ctx context.Context, action Action) error {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	next, err := s.safeReduce(s.GetState(), action)
	if err != nil {
		return err
	}

	s.stateMu.Lock()
	s.state = next
	s.ready = true
	s.stateMu.Unlock()

	s.notify(ctx, action)
	return nil
}

// safeReduce calls the reducer with panic recovery.
// A panic is logged with its stack under a correlation ID that is also
// carried by the returned error.
func (s *Store[S]) safeReduce(state S, action Action) (next S, err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()

			s.logger.Error("reducer panic",
				"correlation_id", correlationID,
				"action_type", action.ActionType(),
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)

			err = &ReducerError{
				ActionType:    action.ActionType(),
				CorrelationID: correlationID,
				Value:         r,
			}
		}
	}()
	return s.reducer(state, action), nil
}

// notify calls every listener from a snapshot taken before the first call,
// so listeners may subscribe or unsubscribe without disturbing this pass.
func (s *Store[S]) notify(ctx context.Context, action Action) {
	s.listenersMu.Lock()
	snapshot := slices.Clone(s.listeners)
	s.listenersMu.Unlock()

	s.logger.Debug("action dispatched",
		"action_type", action.ActionType(),
		"listeners", len(snapshot),
	)

	for _, sub := range snapshot {
		s.invokeListenerSafe(ctx, sub.listener, action)
	}
}

// invokeListenerSafe calls a listener with panic recovery.
// Panics are logged and reported to observers but do not propagate.
func (s *Store[S]) invokeListenerSafe(ctx context.Context, listener Listener, action Action) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()

			s.logger.Error("listener panicked",
				"correlation_id", correlationID,
				"action_type", action.ActionType(),
				"panic", r,
			)

			for _, o := range s.observers {
				o.ObserveListenerPanic(ctx, action, correlationID)
			}
		}
	}()
	listener()
}

// observe notifies observers that action is about to be handled and returns
// the derived context plus a func reporting the outcome to all of them.
func (s *Store[S]) observe(ctx context.Context, action Action) (context.Context, func(error)) {
	if len(s.observers) == 0 {
		return ctx, func(error) {}
	}

	finishers := make([]func(error), 0, len(s.observers))
	for _, o := range s.observers {
		var finish func(error)
		ctx, finish = o.ObserveDispatch(ctx, action)
		finishers = append(finishers, finish)
	}

	return ctx, func(err error) {
		for i := len(finishers) - 1; i >= 0; i-- {
			finishers[i](err)
		}
	}
}
