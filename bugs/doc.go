// Package bugs is the bug-tracking feature slice built on package store.
//
// It defines the slice [State], the plain actions that change it, a pure
// [Reducer], read-only selectors, and asynchronous action creators that
// persist changes through an [API] before applying them:
//
//	actions, _ := bugs.NewActions(client)
//	st, _ := store.New(bugs.Reducer)
//
//	_ = st.Dispatch(ctx, actions.LoadBugs())
//	_ = st.Dispatch(ctx, actions.AddBug(bugs.Bug{Description: "a"}))
//
//	open := bugs.UnresolvedBugs(st.GetState())
//
// A change reaches the state only after the server accepted it. When the
// server rejects a request the thunk dispatches a failure action that records
// the error and leaves the bug list as it was.
package bugs
