// Package server provides the HTTP bug server used by the demo and by tests.
//
// The server exposes the REST resource the asynchronous bug actions talk to:
//
//   - GET /bugs and POST /bugs
//   - GET, PATCH and DELETE /bugs/{id}
//
// Request bodies are validated against embedded JSON schemas before they
// reach the repository. Every successful write is published by the
// repository and pushed to dashboards over Server-Sent Events at
// "/api/events" and over a websocket at "/api/ws".
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
