package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/bugboard"
	"github.com/jpalmerr/bugboard/bugs"
	"github.com/jpalmerr/bugboard/config"
	"github.com/jpalmerr/bugboard/store"
)

const embeddedStartTimeout = 5 * time.Second

// demoCmd drives the bugs store through a short scripted session.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Drive the bugs store against a bug server",
	Long: `Run a scripted session against the bugs store.

The demo subscribes a listener that prints every state change, then:
  - loads the bug list
  - adds two bugs
  - resolves the first and assigns the second to user 1
  - removes the first
  - loads the list again (served from cache while it is fresh)

The bug server is taken from api.base_url. With --embedded a server is
started in-process on a random port instead.

Example:
  bugboard demo --embedded
  bugboard demo -c config.yaml`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().Bool("embedded", false, "start an in-process bug server on a random port")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cmd, cfg)
	embedded, _ := cmd.Flags().GetBool("embedded")

	opts := config.BuildOptions(cfg, logger)
	if embedded {
		opts = append(opts, bugboard.WithPort(0))
	}
	bb, err := bugboard.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create bugboard: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if embedded {
		baseURL, wait, err := startEmbedded(ctx, bb)
		if err != nil {
			return err
		}
		defer func() {
			cancel()
			<-wait
		}()
		cfg.API.BaseURL = baseURL
	}

	client, err := config.BuildClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	actions, err := bugs.NewActions(client, config.BuildActionOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create actions: %w", err)
	}

	st, err := bb.NewStore()
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	out := cmd.OutOrStdout()
	unsubscribe := st.Subscribe(func() {
		printState(out, st.GetState())
	})
	defer unsubscribe()

	fmt.Fprintf(out, "Using bug server at %s\n", cfg.API.BaseURL)

	s := &demoSession{ctx: ctx, store: st, out: out}
	s.run("load bugs", actions.LoadBugs())
	s.run("add Bug 1", actions.AddBug(bugs.Bug{Description: "Bug 1"}))
	first := s.lastID()
	s.run("add Bug 2", actions.AddBug(bugs.Bug{Description: "Bug 2"}))
	second := s.lastID()
	s.run("resolve Bug 1", actions.ResolveBug(first))
	s.run("assign Bug 2", actions.AssignToUser(second, 1))
	s.run("remove Bug 1", actions.RemoveBug(first))
	s.run("load bugs again", actions.LoadBugs())
	if s.err != nil {
		return s.err
	}

	state := st.GetState()
	fmt.Fprintf(out, "Unresolved: %d\n", len(bugs.UnresolvedBugs(state)))
	fmt.Fprintf(out, "Assigned to user 1: %d\n", len(bugs.BugsByUser(1)(state)))

	logger.Debug("demo finished", "bugs", len(state.List))
	return nil
}

// demoSession runs steps in order and stops at the first failure.
type demoSession struct {
	ctx   context.Context
	store *store.Store[bugs.State]
	out   io.Writer
	err   error
}

func (s *demoSession) run(step string, action store.Action) {
	if s.err != nil {
		return
	}
	fmt.Fprintf(s.out, "> %s\n", step)
	if err := s.store.Dispatch(s.ctx, action); err != nil {
		s.err = fmt.Errorf("%s: %w", step, err)
		return
	}
	// request failures are recorded in state rather than returned
	if msg := s.store.GetState().Error; msg != "" {
		s.err = fmt.Errorf("%s: %s", step, msg)
	}
}

func (s *demoSession) lastID() int {
	list := s.store.GetState().List
	if len(list) == 0 {
		return 0
	}
	return list[len(list)-1].ID
}

func printState(w io.Writer, state bugs.State) {
	fmt.Fprintf(w, "  state changed: %d bugs (loading=%t saving=%t)\n",
		len(state.List), state.Loading, state.Saving)
	for _, b := range state.List {
		status := "open"
		if b.Resolved {
			status = "resolved"
		}
		fmt.Fprintf(w, "    #%d %-8s user=%d %s\n", b.ID, status, b.UserID, b.Description)
	}
}

// startEmbedded runs bb in the background and waits for it to listen.
// The returned channel is closed once Start has returned.
func startEmbedded(ctx context.Context, bb *bugboard.BugBoard) (string, <-chan struct{}, error) {
	done := make(chan struct{})
	var startErr error
	go func() {
		defer close(done)
		startErr = bb.Start(ctx)
	}()

	deadline := time.Now().Add(embeddedStartTimeout)
	for time.Now().Before(deadline) {
		if tcp, ok := bb.Addr().(*net.TCPAddr); ok {
			return fmt.Sprintf("http://127.0.0.1:%d", tcp.Port), done, nil
		}
		select {
		case <-done:
			if startErr != nil {
				return "", done, fmt.Errorf("failed to start embedded server: %w", startErr)
			}
			return "", done, errors.New("embedded server stopped before listening")
		case <-time.After(10 * time.Millisecond):
		}
	}
	return "", done, errors.New("embedded server did not start in time")
}
