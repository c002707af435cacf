// Package bugboard wires a small predictable state container to an HTTP bug
// tracker.
//
// The repository is organised around three pieces:
//
//   - [github.com/jpalmerr/bugboard/store]: a generic store holding one state
//     value, updated only by dispatching actions through a pure reducer, with
//     synchronous change listeners and asynchronous thunk actions
//   - [github.com/jpalmerr/bugboard/bugs]: the bugs feature slice (state,
//     actions, reducer, selectors and server-backed thunks)
//   - this package: the bug server that the thunks talk to, plus a factory
//     for instrumented stores
//
// # Quick Start
//
// Run the bug server with graceful shutdown:
//
//	bb, _ := bugboard.New(
//	    bugboard.WithPort(8080),
//	    bugboard.WithSeed(bugs.Bug{Description: "crash on save"}),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	bb.Start(ctx) // blocks until context is cancelled
//
// Drive the bugs feature through a store:
//
//	st, _ := bb.NewStore()
//	st.Subscribe(func() { fmt.Println(bugs.UnresolvedBugs(st.GetState())) })
//
//	client, _ := bugboard.NewAPIClient("http://localhost:8080", 5*time.Second)
//	actions, _ := bugs.NewActions(client)
//
//	_ = st.Dispatch(ctx, actions.LoadBugs())
//	_ = st.Dispatch(ctx, actions.AddBug(bugs.Bug{Description: "typo on login page"}))
//
// # Observability
//
// Stores built by [BugBoard.NewStore] count and time every dispatch in the
// BugBoard's Prometheus registry and start an OpenTelemetry span per action.
// Spans of actions dispatched by a thunk are children of the thunk's span.
// The registry is served at GET /metrics.
//
// # Architecture
//
// The server is built from internal packages:
//
//   - internal/repository: in-memory bug storage with pub/sub for real-time updates
//   - internal/server: chi router with the REST API, SSE and websocket streams
//   - internal/api: the HTTP client the thunks use
//   - internal/metrics and internal/tracing: store observers
//   - dashboard: embedded web UI assets
//
// The internal packages are not part of the public API and may change
// without notice.
package bugboard
