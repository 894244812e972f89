// Package synchronize provides the cross-worker synchronization primitives of
// the compatibility layer: locks, semaphores, events, conditions and barriers.
//
// Every primitive exposes the acquire/release contract of the emulated
// process-level API: Acquire(block, timeout) reports success as a boolean, a
// timeout of zero or less means "wait forever", and Release returns a usage
// error when the primitive is not held. Locks additionally satisfy sync.Locker
// so they can guard scoped sections and back a Cond.
package synchronize

import (
	"time"

	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

// Mutex is a non-reentrant lock with try and timed acquisition.
type Mutex struct {
	ch    chan struct{}
	clock types.Clock
}

// NewMutex creates a new Mutex with the default real clock
func NewMutex() *Mutex {
	return NewMutexWithClock(types.NewRealClock())
}

// NewMutexWithClock creates a new Mutex with the specified clock
func NewMutexWithClock(clock types.Clock) *Mutex {
	if clock == nil {
		clock = types.NewRealClock()
	}
	return &Mutex{
		ch:    make(chan struct{}, 1),
		clock: clock,
	}
}

// Acquire obtains the lock. With block=false it returns immediately; with a
// positive timeout it gives up once the timeout elapses.
func (m *Mutex) Acquire(block bool, timeout time.Duration) bool {
	if !block {
		select {
		case m.ch <- struct{}{}:
			return true
		default:
			return false
		}
	}
	if timeout <= 0 {
		m.ch <- struct{}{}
		return true
	}
	timer := m.clock.NewTimer(timeout)
	defer timer.Stop()
	select {
	case m.ch <- struct{}{}:
		return true
	case <-timer.C():
		return false
	}
}

// Release unlocks the mutex. Releasing an unheld mutex is a usage error.
func (m *Mutex) Release() error {
	select {
	case <-m.ch:
		return nil
	default:
		return types.ErrNotHeld
	}
}

// Lock implements sync.Locker
func (m *Mutex) Lock() {
	m.Acquire(true, 0)
}

// Unlock implements sync.Locker
func (m *Mutex) Unlock() {
	if err := m.Release(); err != nil {
		panic(err)
	}
}
