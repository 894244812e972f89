package synchronize

import (
	"sync"
	"time"

	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

// Event is a manually-reset flag workers can wait on.
type Event struct {
	mu    sync.Mutex
	set   bool
	ch    chan struct{}
	clock types.Clock
}

// NewEvent creates a new, cleared Event
func NewEvent() *Event {
	return NewEventWithClock(types.NewRealClock())
}

// NewEventWithClock creates a new Event with the specified clock
func NewEventWithClock(clock types.Clock) *Event {
	if clock == nil {
		clock = types.NewRealClock()
	}
	return &Event{
		ch:    make(chan struct{}),
		clock: clock,
	}
}

// Set raises the flag and wakes all waiters.
func (e *Event) Set() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.set {
		e.set = true
		close(e.ch)
	}
}

// Clear lowers the flag.
func (e *Event) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set {
		e.set = false
		e.ch = make(chan struct{})
	}
}

// IsSet reports whether the flag is raised.
func (e *Event) IsSet() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.set
}

// Wait blocks until the flag is raised or the timeout elapses. A timeout of
// zero or less waits forever. Returns the state of the flag on return.
func (e *Event) Wait(timeout time.Duration) bool {
	e.mu.Lock()
	if e.set {
		e.mu.Unlock()
		return true
	}
	ch := e.ch
	e.mu.Unlock()

	if timeout <= 0 {
		<-ch
		return true
	}

	timer := e.clock.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
		return true
	case <-timer.C():
		return e.IsSet()
	}
}
