// Package store provides a minimal unidirectional-data-flow state container.
//
// A [Store] owns a single state value of type S and an ordered list of
// listeners. Every change goes through a caller-supplied [Reducer]: a pure
// function mapping the current state and an [Action] to the next state.
// After each committed change all registered listeners are invoked
// synchronously, in registration order, before [Store.Dispatch] returns.
//
// # Quick Start
//
//	type counter struct{ n int }
//
//	type increment struct{}
//
//	func (increment) ActionType() string { return "counter/increment" }
//
//	reducer := func(s counter, a store.Action) counter {
//	    switch a.(type) {
//	    case increment:
//	        return counter{n: s.n + 1}
//	    default:
//	        return s
//	    }
//	}
//
//	st, _ := store.New(reducer)
//	unsubscribe := st.Subscribe(func() {
//	    fmt.Println("count:", st.GetState().n)
//	})
//	defer unsubscribe()
//
//	_ = st.Dispatch(ctx, increment{})
//
// # Asynchronous Actions
//
// A [Thunk] is an action variant that carries work instead of data. When a
// thunk is dispatched the store does not call the reducer; it runs the thunk
// with a dispatch function and a state reader and waits for it to return.
// Thunks use this to dispatch "started", "succeeded" and "failed" actions
// around a network call.
//
// # Initial State
//
// The store performs no bootstrap dispatch. Until the first action is
// dispatched [Store.GetState] returns the zero value of S and [Store.Ready]
// reports false. Reducers should treat the zero value as their default state.
//
// # Failures
//
//   - A reducer panic is recovered and returned from Dispatch as a
//     [*ReducerError]. The state is not changed and listeners are not called.
//   - A listener panic is recovered and logged with a correlation ID. The
//     remaining listeners still run and Dispatch returns nil.
package store
