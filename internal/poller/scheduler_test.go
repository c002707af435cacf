package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noop(context.Context) error { return nil }

func newTestScheduler(t *testing.T, job Job, interval time.Duration) *Scheduler {
	t.Helper()
	s, err := NewScheduler(job, interval, testLogger())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	return s
}

func nextResult(t *testing.T, s *Scheduler) Result {
	t.Helper()
	select {
	case r, ok := <-s.Results():
		if !ok {
			t.Fatal("results channel closed unexpectedly")
		}
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for result")
	}
	return Result{}
}

func TestNewScheduler_Validation(t *testing.T) {
	if _, err := NewScheduler(nil, time.Second, nil); err == nil {
		t.Error("NewScheduler(nil job) expected error, got nil")
	}
	if _, err := NewScheduler(noop, 0, nil); err == nil {
		t.Error("NewScheduler(0 interval) expected error, got nil")
	}
	if _, err := NewScheduler(noop, -time.Second, nil); err == nil {
		t.Error("NewScheduler(negative interval) expected error, got nil")
	}
	if _, err := NewScheduler(noop, time.Second, nil); err != nil {
		t.Errorf("NewScheduler(nil logger) error = %v, want default logger", err)
	}
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	scheduler := newTestScheduler(t, noop, time.Minute)

	scheduler.Stop()

	if _, ok := <-scheduler.Results(); ok {
		t.Error("expected results channel to be closed after Stop()")
	}
}

func TestScheduler_StopTwice(t *testing.T) {
	scheduler := newTestScheduler(t, noop, time.Minute)
	scheduler.Start(context.Background())

	scheduler.Stop()
	scheduler.Stop()
}

func TestScheduler_StartAfterStopIsNoop(t *testing.T) {
	var calls atomic.Int32
	scheduler := newTestScheduler(t, func(context.Context) error {
		calls.Add(1)
		return nil
	}, time.Minute)

	scheduler.Stop()
	scheduler.Start(context.Background())
	time.Sleep(50 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("job ran %d times after Stop, want 0", got)
	}
}

// Meaningful under -race.
func TestScheduler_ConcurrentStartStop(t *testing.T) {
	for i := 0; i < 100; i++ {
		scheduler := newTestScheduler(t, noop, time.Minute)

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			scheduler.Start(context.Background())
		}()

		go func() {
			defer wg.Done()
			scheduler.Stop()
		}()

		wg.Wait()
		scheduler.Stop()

		// drain any remaining results
		for range scheduler.Results() {
		}
	}
}

func TestScheduler_RunsImmediatelyThenOnInterval(t *testing.T) {
	scheduler := newTestScheduler(t, noop, 20*time.Millisecond)
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	for want := 1; want <= 3; want++ {
		r := nextResult(t, scheduler)
		if r.Run != want {
			t.Errorf("Run = %d, want %d", r.Run, want)
		}
		if r.Err != nil {
			t.Errorf("Err = %v, want nil", r.Err)
		}
		if r.StartedAt.IsZero() {
			t.Error("StartedAt is zero")
		}
	}
}

func TestScheduler_FirstRunIsImmediate(t *testing.T) {
	scheduler := newTestScheduler(t, noop, time.Hour)
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	r := nextResult(t, scheduler)
	if r.Run != 1 {
		t.Errorf("Run = %d, want 1", r.Run)
	}
}

func TestScheduler_ReportsJobError(t *testing.T) {
	boom := errors.New("server unavailable")
	scheduler := newTestScheduler(t, func(context.Context) error { return boom }, time.Hour)
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	r := nextResult(t, scheduler)
	if !errors.Is(r.Err, boom) {
		t.Errorf("Err = %v, want %v", r.Err, boom)
	}
}

func TestScheduler_PanicRecovery(t *testing.T) {
	var calls atomic.Int32
	scheduler := newTestScheduler(t, func(context.Context) error {
		if calls.Add(1) == 1 {
			panic("job exploded")
		}
		return nil
	}, 20*time.Millisecond)
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	first := nextResult(t, scheduler)
	if first.Err == nil || !strings.Contains(first.Err.Error(), "correlation_id") {
		t.Errorf("Err = %v, want panic error with correlation_id", first.Err)
	}

	// the loop keeps running after a panic
	second := nextResult(t, scheduler)
	if second.Err != nil {
		t.Errorf("second run Err = %v, want nil", second.Err)
	}
}

func TestScheduler_RunsDoNotOverlap(t *testing.T) {
	var active, maxActive atomic.Int32
	scheduler := newTestScheduler(t, func(context.Context) error {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		active.Add(-1)
		return nil
	}, 5*time.Millisecond)
	scheduler.Start(context.Background())

	for i := 0; i < 4; i++ {
		nextResult(t, scheduler)
	}
	scheduler.Stop()

	if got := maxActive.Load(); got != 1 {
		t.Errorf("max concurrent runs = %d, want 1", got)
	}
}

func TestScheduler_ContextCancellationStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	jobCtx := make(chan context.Context, 1)
	scheduler := newTestScheduler(t, func(ctx context.Context) error {
		select {
		case jobCtx <- ctx:
		default:
		}
		return nil
	}, time.Hour)
	scheduler.Start(ctx)

	nextResult(t, scheduler)
	cancel()

	select {
	case _, ok := <-scheduler.Results():
		if ok {
			t.Error("expected results channel to be closed after cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for results channel to close")
	}

	if err := (<-jobCtx).Err(); err == nil {
		t.Error("job context not cancelled after parent cancellation")
	}
	scheduler.Stop()
}

func TestScheduler_StopUnblocksUnreadResult(t *testing.T) {
	scheduler := newTestScheduler(t, noop, time.Millisecond)
	scheduler.Start(context.Background())

	// never read; the loop blocks on the second send until Stop
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		scheduler.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() blocked on an unread result")
	}
}
