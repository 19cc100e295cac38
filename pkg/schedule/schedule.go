// Package schedule provides the timer primitive the contact form relies on:
// run a callback after a delay and get back a handle that can cancel it.
//
// Two implementations are provided. Loop runs every callback on a single
// goroutine, mirroring a UI event loop, so callers never need locks around the
// state their callbacks touch. Manual is a virtual clock for tests.
package schedule

import (
	"sync/atomic"
	"time"
)

// Task is a handle for a scheduled callback.
type Task interface {
	// Cancel prevents the callback from running. It reports true only when the
	// call stopped a callback that had not started yet.
	Cancel() bool
}

// Scheduler runs fn once after delay.
type Scheduler interface {
	After(delay time.Duration, fn func()) Task
}

// Func adapts a plain function to the Scheduler interface.
type Func func(delay time.Duration, fn func()) Task

// After implements Scheduler.
func (f Func) After(delay time.Duration, fn func()) Task {
	return f(delay, fn)
}

const (
	taskPending int32 = iota
	taskFired
	taskCancelled
)

// taskState is shared by both schedulers. The first of fire or cancel wins.
type taskState struct {
	state atomic.Int32
}

func (s *taskState) claimFire() bool {
	return s.state.CompareAndSwap(taskPending, taskFired)
}

func (s *taskState) claimCancel() bool {
	return s.state.CompareAndSwap(taskPending, taskCancelled)
}

// Cancelled reports whether the task was cancelled before it ran.
func (s *taskState) Cancelled() bool {
	return s.state.Load() == taskCancelled
}

// CancelAll cancels every non-nil task and reports how many were stopped.
func CancelAll(tasks ...Task) int {
	stopped := 0
	for _, task := range tasks {
		if task == nil {
			continue
		}
		if task.Cancel() {
			stopped++
		}
	}
	return stopped
}

type noopTask struct{}

func (noopTask) Cancel() bool { return false }

// Noop is a Task that was never scheduled.
var Noop Task = noopTask{}
