package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Job is the work a [Scheduler] runs on each tick.
//
// The context is cancelled when the scheduler stops.
type Job func(ctx context.Context) error

// Result holds the outcome of a single run.
type Result struct {
	// Run is the 1-based sequence number of the run.
	Run int

	// StartedAt is when the run began.
	StartedAt time.Time

	// Duration is how long the job took.
	Duration time.Duration

	// Err is the error returned by the job, or a description of its panic.
	Err error
}

// Scheduler runs a [Job] periodically.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Scheduler struct {
	job      Job
	interval time.Duration
	results  chan Result
	logger   *slog.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu        sync.Mutex
	started   bool
	stopped   bool
	closeOnce sync.Once

	runs int
}

// NewScheduler creates a [Scheduler] that runs job every interval.
//
// The scheduler must be started with [Scheduler.Start] and stopped with
// [Scheduler.Stop]. Results are available via [Scheduler.Results].
func NewScheduler(job Job, interval time.Duration, logger *slog.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("job is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", interval)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		job:      job,
		interval: interval,
		results:  make(chan Result, 1),
		logger:   logger,
	}, nil
}

// Results returns a receive-only channel that emits one [Result] per run.
//
// The channel is closed when the scheduler stops. A run whose result is not
// consumed blocks the next run until it is read or the scheduler stops.
func (s *Scheduler) Results() <-chan Result {
	return s.results
}

// Start launches the run loop and returns without waiting for the first run.
//
// The first run happens straight away; later runs follow the interval until
// Stop is called or ctx ends. A nil ctx means context.Background(). Calling
// Start again, or after Stop, does nothing.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer s.closeOnce.Do(func() { close(s.results) })

		if !s.runOnce(runCtx) {
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if !s.runOnce(runCtx) {
					return
				}
			}
		}
	}()
}

// Stop cancels the run loop and blocks until it has exited, which includes
// waiting for a run in progress. Results is closed when Stop returns.
// Stop may be called any number of times, before or after Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		if s.cancel != nil {
			s.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.closeOnce.Do(func() { close(s.results) })
}

// runOnce runs the job and emits its result. It reports false when the
// context was cancelled before the result could be delivered.
func (s *Scheduler) runOnce(ctx context.Context) bool {
	s.runs++
	result := Result{Run: s.runs, StartedAt: time.Now()}
	result.Err = s.safeRun(ctx)
	result.Duration = time.Since(result.StartedAt)

	select {
	case s.results <- result:
		return true
	case <-ctx.Done():
		return false
	}
}

// safeRun calls the job with panic recovery.
// If the job panics, it logs the full stack trace with a correlation ID
// and returns an error containing the ID.
func (s *Scheduler) safeRun(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			stack := debug.Stack()

			s.logger.Error("scheduled job panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(stack),
			)

			err = fmt.Errorf("job panic (correlation_id: %s)", correlationID)
		}
	}()
	return s.job(ctx)
}
