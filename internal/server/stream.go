package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jpalmerr/bugboard/internal/repository"
)

// Stream event names shared by the SSE and websocket endpoints.
const (
	eventSnapshot = "snapshot"
	eventChange   = "change"
)

// streamMessage is the websocket frame format.
type streamMessage struct {
	Type   string             `json:"type"`
	Bugs   []repository.Bug   `json:"bugs,omitempty"`
	Change *repository.Change `json:"change,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleSSE streams repository changes via Server-Sent Events.
//
// The first event is a "snapshot" carrying the full bug list, followed by one
// "change" event per write. Write deadlines prevent goroutine leaks when
// clients are slow or disconnected.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)
	deadlinesSupported := true

	writeAndFlush := func(event string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			s.logger.Warn("failed to encode sse event", "event", event, "error", err)
			return nil
		}

		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
				s.logger.Debug("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return err
		}
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// subscribe before the snapshot so no write is missed in between
	ch := s.repo.Subscribe()
	defer s.repo.Unsubscribe(ch)

	if err := writeAndFlush(eventSnapshot, s.repo.List()); err != nil {
		return
	}

	for {
		select {
		case change, ok := <-ch:
			if !ok {
				return
			}
			if err := writeAndFlush(eventChange, change); err != nil {
				return
			}

		case <-r.Context().Done():
			// fires on both client disconnect and server shutdown
			return
		}
	}
}

// handleWebSocket streams repository changes over a websocket.
//
// Frames use the same snapshot/change sequence as the SSE endpoint. Messages
// from the client are read and discarded; a read error ends the stream.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch := s.repo.Subscribe()
	defer s.repo.Unsubscribe(ch)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(msg streamMessage) error {
		if err := conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
			return err
		}
		return conn.WriteJSON(msg)
	}

	if err := send(streamMessage{Type: eventSnapshot, Bugs: s.repo.List()}); err != nil {
		return
	}

	for {
		select {
		case change, ok := <-ch:
			if !ok {
				return
			}
			if err := send(streamMessage{Type: eventChange, Change: &change}); err != nil {
				return
			}

		case <-closed:
			return

		case <-r.Context().Done():
			deadline := time.Now().Add(time.Second)
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
			return
		}
	}
}
