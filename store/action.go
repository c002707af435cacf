package store

import "context"

// ThunkActionType is the action type reported by every [Thunk].
const ThunkActionType = "@@store/thunk"

// Action describes a state change.
//
// Applications define their actions as small structs, one per kind of
// change, and reducers switch on the concrete type. ActionType returns a
// stable name used for logging, metrics and tracing.
type Action interface {
	ActionType() string
}

// Reducer computes the next state from the current state and an action.
//
// Reducers must be pure: they must not mutate state in place and must return
// the input unchanged for actions they do not recognise. The first call
// receives the zero value of S.
type Reducer[S any] func(state S, action Action) S

// Listener is called after every committed state change.
type Listener func()

// DispatchFunc dispatches an action to a store.
type DispatchFunc func(ctx context.Context, action Action) error

// Thunk is an asynchronous action.
//
// When dispatched, the store calls the thunk with its own dispatch function
// and a state reader, and Dispatch returns whatever the thunk returns. The
// thunk runs on the dispatching goroutine, outside the store's dispatch lock,
// so it may dispatch as many plain actions or nested thunks as it needs.
type Thunk[S any] func(ctx context.Context, dispatch DispatchFunc, getState func() S) error

// ActionType implements [Action].
func (Thunk[S]) ActionType() string {
	return ThunkActionType
}
