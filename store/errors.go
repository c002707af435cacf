package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNilReducer is returned by [New] when no reducer is given.
	ErrNilReducer = errors.New("store: reducer is required")

	// ErrNilAction is returned by [Store.Dispatch] for a nil action or nil thunk.
	ErrNilAction = errors.New("store: action is required")

	// ErrReducerPanic is wrapped by every [ReducerError].
	ErrReducerPanic = errors.New("store: reducer panicked")
)

// ReducerError reports a reducer that panicked while handling an action.
//
// The panic value is kept for inspection. If it was an error it is also
// reachable through [errors.Is] and [errors.As].
type ReducerError struct {
	// ActionType is the type of the action being reduced.
	ActionType string

	// CorrelationID matches the ID in the log entry written for the panic.
	CorrelationID string

	// Value is the recovered panic value.
	Value any
}

func (e *ReducerError) Error() string {
	return fmt.Sprintf("store: reducer panicked on %q (correlation_id: %s): %v",
		e.ActionType, e.CorrelationID, e.Value)
}

// Unwrap returns ErrReducerPanic and, when the panic value is an error, that error.
func (e *ReducerError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrReducerPanic, err}
	}
	return []error{ErrReducerPanic}
}
