package bugs

// UnresolvedBugs returns the bugs that are not resolved, in list order.
func UnresolvedBugs(state State) []Bug {
	return filter(state.List, func(b Bug) bool { return !b.Resolved })
}

// BugsByUser returns a selector for the bugs assigned to userID.
func BugsByUser(userID int) func(State) []Bug {
	return func(state State) []Bug {
		return filter(state.List, func(b Bug) bool { return b.UserID == userID })
	}
}

func filter(list []Bug, keep func(Bug) bool) []Bug {
	out := make([]Bug, 0, len(list))
	for _, b := range list {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}
