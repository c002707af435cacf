// Package poller runs a job on a fixed interval.
//
// The [Scheduler] runs its job once immediately on start and then on every
// tick until stopped. Runs never overlap: a run that outlasts the interval
// delays the next one rather than racing it. Every run's outcome is emitted
// on [Scheduler.Results].
//
// The bugboard CLI uses a scheduler to keep a store in sync with the bug
// server by dispatching a refresh on each run.
package poller
