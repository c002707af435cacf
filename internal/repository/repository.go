package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no bug has the requested ID.
var ErrNotFound = errors.New("bug not found")

// Bug is the server-side record of a bug.
//
// Bug is the storage representation, optimized for JSON serialization (used
// by the REST API, SSE and websocket streams). It is decoupled from the
// client-side bugs.Bug to allow independent evolution.
type Bug struct {
	// ID is assigned by the repository on creation, starting at 1.
	ID int `json:"id"`

	// Description is free text describing the bug.
	Description string `json:"description,omitempty"`

	// UserID is the assigned user. Zero means unassigned.
	UserID int `json:"userId,omitempty"`

	// Resolved reports whether the bug has been fixed.
	Resolved bool `json:"resolved"`

	// CreatedAt is when the bug was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the bug was last changed.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Description *string `json:"description,omitempty"`
	UserID      *int    `json:"userId,omitempty"`
	Resolved    *bool   `json:"resolved,omitempty"`
}

// ChangeKind names what happened to a bug.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Change is published to subscribers after every successful write.
type Change struct {
	Kind ChangeKind `json:"kind"`
	Bug  Bug        `json:"bug"`
}

// Repository defines storage and change subscription for bugs.
//
// Repository implementations must be safe for concurrent access. The pub/sub
// mechanism allows real-time updates to be pushed to connected clients
// (e.g., via Server-Sent Events or websockets).
type Repository interface {
	// List returns all bugs ordered by ID.
	// The returned slice is a snapshot; modifications do not affect the repository.
	List() []Bug

	// Get returns the bug with the given ID or ErrNotFound.
	Get(id int) (Bug, error)

	// Create stores a new bug, assigning its ID and timestamps.
	Create(bug Bug) Bug

	// Update applies patch to the bug with the given ID or returns ErrNotFound.
	Update(id int, patch Patch) (Bug, error)

	// Delete removes the bug with the given ID or returns ErrNotFound.
	Delete(id int) error

	// Subscribe returns a channel that receives changes.
	// The returned channel has a buffer; slow consumers may miss changes.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Change

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Change)
}
