package bugs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnresolvedBugs(t *testing.T) {
	state := State{List: []Bug{
		{ID: 1, Resolved: true},
		{ID: 2},
		{ID: 3},
	}}

	result := UnresolvedBugs(state)

	assert.Len(t, result, 2)
	assert.Equal(t, []int{2, 3}, ids(result))
}

func TestBugsByUser(t *testing.T) {
	state := State{List: []Bug{
		{ID: 1, UserID: 1},
		{ID: 2},
		{ID: 3},
	}}

	result := BugsByUser(1)(state)

	assert.Len(t, result, 1)
	assert.Equal(t, 1, result[0].ID)
}

func TestSelectors_EmptyState(t *testing.T) {
	assert.Empty(t, UnresolvedBugs(State{}))
	assert.Empty(t, BugsByUser(1)(State{}))
}

func TestSelectors_DoNotShareBackingArray(t *testing.T) {
	state := State{List: []Bug{{ID: 1}}}

	result := UnresolvedBugs(state)
	result[0].Description = "changed"

	assert.Empty(t, state.List[0].Description)
}

func ids(list []Bug) []int {
	out := make([]int, len(list))
	for i, b := range list {
		out[i] = b.ID
	}
	return out
}
