// Package api provides the HTTP client for the bug server.
//
// [Client] implements bugs.API over the bug server's REST endpoints:
//
//   - GET /bugs: list all bugs
//   - POST /bugs: create a bug, returns it with a server-assigned id
//   - PATCH /bugs/{id}: update userId or resolved, returns the updated bug
//   - DELETE /bugs/{id}: remove a bug
//
// Any non-2xx response is returned as a [*StatusError].
package api
