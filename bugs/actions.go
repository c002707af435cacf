package bugs

import "time"

// Action types, namespaced by slice.
const (
	TypeBugsRequested     = "bugs/bugsRequested"
	TypeBugsReceived      = "bugs/bugsReceived"
	TypeBugsRequestFailed = "bugs/bugsRequestFailed"
	TypeBugRequestStarted = "bugs/bugRequestStarted"
	TypeBugRequestFailed  = "bugs/bugRequestFailed"
	TypeBugAdded          = "bugs/bugAdded"
	TypeBugAssignedToUser = "bugs/bugAssignedToUser"
	TypeBugResolved       = "bugs/bugResolved"
	TypeBugRemoved        = "bugs/bugRemoved"
)

// Operation names a bug mutation, carried by the request actions.
type Operation string

const (
	OpAdd     Operation = "add"
	OpAssign  Operation = "assign"
	OpResolve Operation = "resolve"
	OpRemove  Operation = "remove"
)

// BugsRequested marks the start of a list fetch.
type BugsRequested struct{}

// BugsReceived replaces the list with the fetched bugs.
type BugsReceived struct {
	Bugs []Bug
	At   time.Time
}

// BugsRequestFailed ends a list fetch that failed.
type BugsRequestFailed struct {
	Err string
}

// BugRequestStarted marks the start of a create, update or delete request.
type BugRequestStarted struct {
	Op Operation
}

// BugRequestFailed ends a create, update or delete request that failed.
type BugRequestFailed struct {
	Op  Operation
	Err string
}

// BugAdded appends a saved bug to the list.
type BugAdded struct {
	Bug Bug
}

// BugAssignedToUser assigns a listed bug to a user.
type BugAssignedToUser struct {
	BugID  int
	UserID int
}

// BugResolved marks a listed bug as resolved.
type BugResolved struct {
	ID int
}

// BugRemoved drops a bug from the list.
type BugRemoved struct {
	ID int
}

func (BugsRequested) ActionType() string     { return TypeBugsRequested }
func (BugsReceived) ActionType() string      { return TypeBugsReceived }
func (BugsRequestFailed) ActionType() string { return TypeBugsRequestFailed }
func (BugRequestStarted) ActionType() string { return TypeBugRequestStarted }
func (BugRequestFailed) ActionType() string  { return TypeBugRequestFailed }
func (BugAdded) ActionType() string          { return TypeBugAdded }
func (BugAssignedToUser) ActionType() string { return TypeBugAssignedToUser }
func (BugResolved) ActionType() string       { return TypeBugResolved }
func (BugRemoved) ActionType() string        { return TypeBugRemoved }
