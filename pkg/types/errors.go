// Package types defines the shared error taxonomy and time abstractions.
package types

import "errors"

// Usage errors are raised synchronously at the call site and never retried.
var (
	// ErrQueueClosed indicates an operation on a closed queue
	ErrQueueClosed = errors.New("queue is closed")

	// ErrQueueEmpty indicates a non-blocking or timed get found no item
	ErrQueueEmpty = errors.New("queue is empty")

	// ErrQueueFull indicates a non-blocking or timed put found no room
	ErrQueueFull = errors.New("queue is full")

	// ErrAlreadyStarted indicates Start was called on a started worker
	ErrAlreadyStarted = errors.New("worker has already started")

	// ErrNotStarted indicates an operation that requires a started worker
	ErrNotStarted = errors.New("worker has not been started")

	// ErrStillRunning indicates a result was requested from a live worker
	ErrStillRunning = errors.New("worker is still running")

	// ErrTaskDoneOverflow indicates TaskDone was called with no outstanding tasks
	ErrTaskDoneOverflow = errors.New("task done called too many times")

	// ErrBarrierBroken indicates a wait on an aborted or timed-out barrier
	ErrBarrierBroken = errors.New("barrier is broken")

	// ErrNotHeld indicates a release of a lock or semaphore that is not held
	ErrNotHeld = errors.New("release of unheld primitive")

	// ErrReleaseOverflow indicates a bounded semaphore released above its initial value
	ErrReleaseOverflow = errors.New("semaphore released too many times")

	// ErrProviderInstalled indicates a conflicting default provider install
	ErrProviderInstalled = errors.New("a different provider is already installed")

	// ErrBadStartMethod indicates an unsupported start method name
	ErrBadStartMethod = errors.New("unsupported start method")

	// ErrRunStalled indicates no result arrived within the stall timeout
	ErrRunStalled = errors.New("run stalled waiting for results")
)
