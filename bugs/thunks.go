package bugs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jpalmerr/bugboard/store"
)

// actionsConfig holds mutable state during Actions construction.
type actionsConfig struct {
	cacheTTL time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures [Actions] during construction.
type Option func(*actionsConfig) error

// WithCacheTTL sets how long a fetched list is served from state before
// [Actions.LoadBugs] fetches again. Zero, the default, means a fetched list
// never expires.
func WithCacheTTL(d time.Duration) Option {
	return func(cfg *actionsConfig) error {
		if d < 0 {
			return errors.New("cache TTL cannot be negative")
		}
		cfg.cacheTTL = d
		return nil
	}
}

// WithClock sets the time source used to stamp and age fetched lists.
func WithClock(now func() time.Time) Option {
	return func(cfg *actionsConfig) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		cfg.now = now
		return nil
	}
}

// WithLogger sets the logger for request failures and cache hits.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *actionsConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// Actions creates the asynchronous bug actions bound to an [API].
type Actions struct {
	api      API
	cacheTTL time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewActions creates [Actions] that persist through api.
func NewActions(api API, opts ...Option) (*Actions, error) {
	if api == nil {
		return nil, errors.New("api is required")
	}

	cfg := &actionsConfig{now: time.Now}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Actions{
		api:      api,
		cacheTTL: cfg.cacheTTL,
		now:      cfg.now,
		logger:   logger,
	}, nil
}

// LoadBugs fetches the bug list unless the state already holds a fresh copy.
//
// Loading is set for the duration of the request and always cleared
// afterwards, whether the request succeeded or not.
func (a *Actions) LoadBugs() store.Thunk[State] {
	return func(ctx context.Context, dispatch store.DispatchFunc, getState func() State) error {
		if a.cached(getState()) {
			a.logger.Debug("bug list served from cache")
			return nil
		}
		return a.fetch(ctx, dispatch)
	}
}

// RefreshBugs fetches the bug list regardless of how fresh the state's copy
// is. It follows the same loading sequence as [Actions.LoadBugs].
func (a *Actions) RefreshBugs() store.Thunk[State] {
	return func(ctx context.Context, dispatch store.DispatchFunc, _ func() State) error {
		return a.fetch(ctx, dispatch)
	}
}

func (a *Actions) fetch(ctx context.Context, dispatch store.DispatchFunc) error {
	if err := dispatch(ctx, BugsRequested{}); err != nil {
		return err
	}

	list, err := a.api.ListBugs(ctx)
	if err != nil {
		a.logger.Warn("bug list request failed", "error", err)
		return dispatch(ctx, BugsRequestFailed{Err: err.Error()})
	}

	return dispatch(ctx, BugsReceived{Bugs: list, At: a.now()})
}

// AddBug saves bug and appends the saved copy, with its server-assigned ID,
// to the list.
func (a *Actions) AddBug(bug Bug) store.Thunk[State] {
	return a.mutate(OpAdd, func(ctx context.Context) (store.Action, error) {
		saved, err := a.api.CreateBug(ctx, bug)
		if err != nil {
			return nil, err
		}
		return BugAdded{Bug: saved}, nil
	})
}

// AssignToUser assigns a bug to a user once the server accepted the change.
func (a *Actions) AssignToUser(bugID, userID int) store.Thunk[State] {
	return a.mutate(OpAssign, func(ctx context.Context) (store.Action, error) {
		saved, err := a.api.UpdateBug(ctx, bugID, Patch{UserID: &userID})
		if err != nil {
			return nil, err
		}
		return BugAssignedToUser{BugID: idOr(saved, bugID), UserID: saved.UserID}, nil
	})
}

// ResolveBug marks a bug resolved once the server accepted the change.
func (a *Actions) ResolveBug(id int) store.Thunk[State] {
	resolved := true
	return a.mutate(OpResolve, func(ctx context.Context) (store.Action, error) {
		saved, err := a.api.UpdateBug(ctx, id, Patch{Resolved: &resolved})
		if err != nil {
			return nil, err
		}
		return BugResolved{ID: idOr(saved, id)}, nil
	})
}

// RemoveBug deletes a bug and drops it from the list.
func (a *Actions) RemoveBug(id int) store.Thunk[State] {
	return a.mutate(OpRemove, func(ctx context.Context) (store.Action, error) {
		if err := a.api.DeleteBug(ctx, id); err != nil {
			return nil, err
		}
		return BugRemoved{ID: id}, nil
	})
}

// mutate wraps a server call in the started / succeeded / failed sequence.
// A failed call is recorded in state and not returned to the dispatcher.
func (a *Actions) mutate(op Operation, call func(context.Context) (store.Action, error)) store.Thunk[State] {
	return func(ctx context.Context, dispatch store.DispatchFunc, _ func() State) error {
		if err := dispatch(ctx, BugRequestStarted{Op: op}); err != nil {
			return err
		}

		success, err := call(ctx)
		if err != nil {
			a.logger.Warn("bug request failed", "op", string(op), "error", err)
			return dispatch(ctx, BugRequestFailed{Op: op, Err: err.Error()})
		}

		return dispatch(ctx, success)
	}
}

// cached reports whether state holds a list that is still fresh.
func (a *Actions) cached(state State) bool {
	if state.LastFetch.IsZero() {
		return false
	}
	if a.cacheTTL == 0 {
		return true
	}
	return a.now().Sub(state.LastFetch) < a.cacheTTL
}

func idOr(b Bug, fallback int) int {
	if b.ID != 0 {
		return b.ID
	}
	return fallback
}
