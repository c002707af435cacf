package bugboard

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jpalmerr/bugboard/bugs"
	"github.com/jpalmerr/bugboard/internal/repository"
)

// collectChanges returns a callback that records changes and a function
// that waits for n of them.
func collectChanges() (func(Change), func(t *testing.T, n int) []Change) {
	var mu sync.Mutex
	var got []Change

	cb := func(c Change) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, c)
	}

	wait := func(t *testing.T, n int) []Change {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			mu.Lock()
			if len(got) >= n {
				out := append([]Change(nil), got...)
				mu.Unlock()
				return out
			}
			mu.Unlock()
			time.Sleep(10 * time.Millisecond)
		}
		mu.Lock()
		defer mu.Unlock()
		t.Fatalf("received %d changes, want %d", len(got), n)
		return nil
	}

	return cb, wait
}

func TestWithChangeCallback_SeedIsReported(t *testing.T) {
	cb, wait := collectChanges()

	bb, err := New(
		WithPort(0),
		WithLogger(testLogger()),
		WithSeed(bugs.Bug{Description: "seeded", UserID: 3}),
		WithChangeCallback(cb),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	startBugBoard(t, bb)

	got := wait(t, 1)
	if got[0].Kind != ChangeCreated {
		t.Errorf("Kind = %q, want %q", got[0].Kind, ChangeCreated)
	}
	if got[0].Bug.ID != 1 || got[0].Bug.Description != "seeded" || got[0].Bug.UserID != 3 {
		t.Errorf("Bug = %+v, want the seeded bug with id 1", got[0].Bug)
	}
}

func TestWithChangeCallback_ReportsAPIWrites(t *testing.T) {
	cb, wait := collectChanges()

	bb, err := New(WithPort(0), WithLogger(testLogger()), WithChangeCallback(cb))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	baseURL, _ := startBugBoard(t, bb)

	send := func(method, path, body string) {
		t.Helper()
		req, err := http.NewRequest(method, baseURL+path, strings.NewReader(body))
		if err != nil {
			t.Fatalf("NewRequest() error = %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s error = %v", method, path, err)
		}
		_ = resp.Body.Close()
	}

	send(http.MethodPost, "/bugs", `{"description":"a"}`)
	send(http.MethodPatch, "/bugs/1", `{"resolved":true}`)
	send(http.MethodDelete, "/bugs/1", "")

	got := wait(t, 3)
	want := []ChangeKind{ChangeCreated, ChangeUpdated, ChangeDeleted}
	for i, kind := range want {
		if got[i].Kind != kind {
			t.Errorf("change[%d].Kind = %q, want %q", i, got[i].Kind, kind)
		}
	}
	if !got[1].Bug.Resolved {
		t.Error("update change should carry the resolved bug")
	}
}

func TestWithChangeCallback_ExecutionOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	record := func(name string) func(Change) {
		return func(Change) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}
	}
	last, wait := collectChanges()

	bb, err := New(
		WithPort(0),
		WithLogger(testLogger()),
		WithSeed(bugs.Bug{}),
		WithChangeCallback(record("first")),
		WithChangeCallback(record("second")),
		WithChangeCallback(last),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	startBugBoard(t, bb)
	wait(t, 1)

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("order = %v, want [first second]", order)
	}
}

func TestWithChangeCallback_PanicRecovery(t *testing.T) {
	var buf bytes.Buffer
	var bufMu sync.Mutex
	logger := slog.New(slog.NewTextHandler(&lockedWriter{w: &buf, mu: &bufMu}, nil))
	after, wait := collectChanges()

	bb, err := New(
		WithPort(0),
		WithLogger(logger),
		WithSeed(bugs.Bug{}, bugs.Bug{}),
		WithChangeCallback(func(Change) { panic("callback exploded") }),
		WithChangeCallback(after),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	startBugBoard(t, bb)

	// later callbacks still run for every change
	wait(t, 2)

	bufMu.Lock()
	defer bufMu.Unlock()
	if !strings.Contains(buf.String(), "change callback panicked") {
		t.Errorf("panic should be logged, got: %s", buf.String())
	}
}

func TestToPublicChange(t *testing.T) {
	got := toPublicChange(repository.Change{
		Kind: repository.ChangeUpdated,
		Bug:  repository.Bug{ID: 4, Description: "d", UserID: 2, Resolved: true, CreatedAt: time.Now()},
	})

	want := Change{Kind: ChangeUpdated, Bug: bugs.Bug{ID: 4, Description: "d", UserID: 2, Resolved: true}}
	if got != want {
		t.Errorf("toPublicChange() = %+v, want %+v", got, want)
	}
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
