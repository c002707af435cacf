package bugs

import (
	"context"
	"time"
)

// Bug is a tracked defect as returned by the bug server.
type Bug struct {
	// ID is assigned by the server on creation. Zero means unsaved.
	ID int `json:"id,omitempty"`

	// Description is free text describing the bug.
	Description string `json:"description,omitempty"`

	// UserID is the user the bug is assigned to. Zero means unassigned.
	UserID int `json:"userId,omitempty"`

	// Resolved reports whether the bug has been fixed.
	Resolved bool `json:"resolved,omitempty"`
}

// State is the bugs slice of the application state.
//
// The zero value is the initial state: an empty list that has never been
// fetched. Reducers never modify a State in place; List is replaced by a new
// slice on every change.
type State struct {
	// List holds the known bugs in server order.
	List []Bug

	// Loading is true while the bug list is being fetched.
	Loading bool

	// Saving is true while a create, update or delete request is in flight.
	Saving bool

	// LastFetch is when the list was last fetched. Zero means never.
	LastFetch time.Time

	// Error is the message of the last failed request, cleared on success.
	Error string
}

// Patch describes a partial update of a bug. Nil fields are left unchanged.
type Patch struct {
	UserID   *int  `json:"userId,omitempty"`
	Resolved *bool `json:"resolved,omitempty"`
}

// API is the bug server collaborator used by the asynchronous actions.
//
// Implementations return an error for transport failures and for any
// non-2xx response.
type API interface {
	// ListBugs fetches every bug.
	ListBugs(ctx context.Context) ([]Bug, error)

	// CreateBug saves a new bug and returns it with its server-assigned ID.
	CreateBug(ctx context.Context, bug Bug) (Bug, error)

	// UpdateBug applies patch to the bug with the given ID and returns the result.
	UpdateBug(ctx context.Context, id int, patch Patch) (Bug, error)

	// DeleteBug removes the bug with the given ID.
	DeleteBug(ctx context.Context, id int) error
}
