// Package dashboard provides the embedded web UI assets for the bug server.
//
// The page lists every bug and stays current by consuming the server's
// "/api/events" stream: a snapshot event on connect followed by one change
// event per write.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Bug list with inline CSS and JavaScript
//
// The server substitutes "{{.Title}}" in index.html with the configured,
// HTML-escaped title.
//
//go:embed assets/*
var Assets embed.FS
