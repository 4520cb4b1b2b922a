// Package oneflight guarantees at most one cleanup pass in flight.
//
// Unlike result-sharing deduplicators, duplicate callers are not blocked until
// the running task finishes; they are refused immediately so the caller's
// event path stays responsive.
package oneflight

import "sync/atomic"

// Runner runs tasks on a detached goroutine, at most one at a time.
// The zero value is ready to use.
type Runner struct {
	busy atomic.Bool
}

// TryStart runs task on a background goroutine and returns true, unless a
// previously started task is still in flight, in which case it returns false
// immediately without running task. The busy flag is cleared when the task
// completes, whether it panics or returns normally.
func (r *Runner) TryStart(task func()) bool {
	if !r.busy.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		defer r.busy.Store(false)
		task()
	}()
	return true
}

// Busy reports whether a task is currently in flight.
func (r *Runner) Busy() bool {
	return r.busy.Load()
}
