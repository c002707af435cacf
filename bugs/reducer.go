package bugs

import (
	"slices"

	"github.com/jpalmerr/bugboard/store"
)

// Reducer computes the next bugs [State]. It never modifies its input:
// every change to List produces a new slice. Actions of other slices are
// returned unchanged.
func Reducer(state State, action store.Action) State {
	switch a := action.(type) {
	case BugsRequested:
		state.Loading = true
		return state

	case BugsReceived:
		state.List = slices.Clone(a.Bugs)
		state.Loading = false
		state.LastFetch = a.At
		state.Error = ""
		return state

	case BugsRequestFailed:
		state.Loading = false
		state.Error = a.Err
		return state

	case BugRequestStarted:
		state.Saving = true
		return state

	case BugRequestFailed:
		state.Saving = false
		state.Error = a.Err
		return state

	case BugAdded:
		list := make([]Bug, len(state.List), len(state.List)+1)
		copy(list, state.List)
		state.List = append(list, a.Bug)
		return settled(state)

	case BugAssignedToUser:
		state.List = updateBug(state.List, a.BugID, func(b *Bug) { b.UserID = a.UserID })
		return settled(state)

	case BugResolved:
		state.List = updateBug(state.List, a.ID, func(b *Bug) { b.Resolved = true })
		return settled(state)

	case BugRemoved:
		idx := indexOf(state.List, a.ID)
		if idx >= 0 {
			state.List = slices.Delete(slices.Clone(state.List), idx, idx+1)
		}
		return settled(state)

	default:
		return state
	}
}

// settled clears the in-flight flag and any previous error after a
// successful mutation.
func settled(state State) State {
	state.Saving = false
	state.Error = ""
	return state
}

// updateBug returns a copy of list with fn applied to the bug with the given
// ID, or list itself if no such bug exists.
func updateBug(list []Bug, id int, fn func(*Bug)) []Bug {
	idx := indexOf(list, id)
	if idx < 0 {
		return list
	}
	out := slices.Clone(list)
	fn(&out[idx])
	return out
}

func indexOf(list []Bug, id int) int {
	return slices.IndexFunc(list, func(b Bug) bool { return b.ID == id })
}
