package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jpalmerr/bugboard"
	"github.com/jpalmerr/bugboard/bugs"
	"github.com/jpalmerr/bugboard/store"
)

// simulateTeam files, assigns and resolves bugs through a store until ctx
// is cancelled. Each step happens 2-6 seconds after the previous one.
func simulateTeam(ctx context.Context, bb *bugboard.BugBoard, baseURL string, logger *slog.Logger) error {
	client, err := bugboard.NewAPIClient(baseURL, 5*time.Second)
	if err != nil {
		return err
	}
	actions, err := bugs.NewActions(client, bugs.WithLogger(logger))
	if err != nil {
		return err
	}
	st, err := bb.NewStore()
	if err != nil {
		return err
	}

	st.Subscribe(func() {
		state := st.GetState()
		logger.Debug("store changed",
			"bugs", len(state.List),
			"unresolved", len(bugs.UnresolvedBugs(state)),
		)
	})

	if err := st.Dispatch(ctx, actions.LoadBugs()); err != nil {
		return err
	}

	filed := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(2+rand.Intn(5)) * time.Second):
		}

		if err := st.Dispatch(ctx, nextStep(actions, st.GetState(), &filed)); err != nil {
			return err
		}
	}
}

// nextStep picks a random action that makes sense for the current state.
func nextStep(actions *bugs.Actions, state bugs.State, filed *int) store.Thunk[bugs.State] {
	open := bugs.UnresolvedBugs(state)
	if len(open) == 0 || rand.Intn(3) == 0 {
		*filed++
		return actions.AddBug(bugs.Bug{Description: fmt.Sprintf("simulated bug %d", *filed)})
	}

	target := open[rand.Intn(len(open))]
	switch {
	case target.UserID == 0:
		return actions.AssignToUser(target.ID, 1+rand.Intn(3))
	case rand.Intn(4) == 0 && len(state.List) > 5:
		return actions.RemoveBug(target.ID)
	default:
		return actions.ResolveBug(target.ID)
	}
}
