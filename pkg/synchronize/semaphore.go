package synchronize

import (
	"sync"
	"time"

	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

// Semaphore is a counting semaphore. Unlike a channel of tokens it may be
// released above its initial value, which the emulated API allows.
type Semaphore struct {
	mu     sync.Mutex
	count  int
	notify chan struct{}
	clock  types.Clock
}

// NewSemaphore creates a semaphore with the given initial value
func NewSemaphore(value int) *Semaphore {
	return NewSemaphoreWithClock(value, types.NewRealClock())
}

// NewSemaphoreWithClock creates a semaphore with the specified clock
func NewSemaphoreWithClock(value int, clock types.Clock) *Semaphore {
	if clock == nil {
		clock = types.NewRealClock()
	}
	if value < 0 {
		value = 0
	}
	return &Semaphore{
		count:  value,
		notify: make(chan struct{}, 1),
		clock:  clock,
	}
}

// Acquire takes one permit, waiting for one to become available when block is
// true. Returns false when no permit could be taken in time.
func (s *Semaphore) Acquire(block bool, timeout time.Duration) bool {
	var deadline time.Time
	if block && timeout > 0 {
		deadline = s.clock.Now().Add(timeout)
	}

	for {
		if s.take() {
			return true
		}
		if !block {
			return false
		}
		if timeout <= 0 {
			<-s.notify
			continue
		}
		remaining := deadline.Sub(s.clock.Now())
		if remaining <= 0 {
			// one last non-blocking attempt before giving up
			return s.take()
		}
		timer := s.clock.NewTimer(remaining)
		select {
		case <-s.notify:
			timer.Stop()
		case <-timer.C():
		}
	}
}

func (s *Semaphore) take() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 {
		return false
	}
	s.count--
	if s.count > 0 {
		// more permits remain; pass the wakeup along
		s.wake()
	}
	return true
}

// Release returns one permit and wakes a waiter.
func (s *Semaphore) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	s.wake()
	return nil
}

func (s *Semaphore) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Value returns the current number of available permits.
func (s *Semaphore) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// BoundedSemaphore is a Semaphore whose value may never exceed its initial
// value; releasing above it is a usage error.
type BoundedSemaphore struct {
	*Semaphore
	initial int
}

// NewBoundedSemaphore creates a bounded semaphore with the given initial value
func NewBoundedSemaphore(value int) *BoundedSemaphore {
	return NewBoundedSemaphoreWithClock(value, types.NewRealClock())
}

// NewBoundedSemaphoreWithClock creates a bounded semaphore with the specified clock
func NewBoundedSemaphoreWithClock(value int, clock types.Clock) *BoundedSemaphore {
	return &BoundedSemaphore{
		Semaphore: NewSemaphoreWithClock(value, clock),
		initial:   value,
	}
}

// Release returns one permit, failing if the semaphore is already full.
func (b *BoundedSemaphore) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count >= b.initial {
		return types.ErrReleaseOverflow
	}
	b.count++
	b.wake()
	return nil
}
