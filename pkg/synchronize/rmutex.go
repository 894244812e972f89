package synchronize

import (
	"sync"
	"time"

	"github.com/AFDudley/briefcase-test-sub000/internal/goid"
	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

// RMutex is a reentrant lock. The goroutine holding it may acquire it again;
// the lock is released once Release has been called as many times as Acquire.
type RMutex struct {
	inner *Mutex

	mu    sync.Mutex
	owner int64
	count int
}

// NewRMutex creates a new RMutex with the default real clock
func NewRMutex() *RMutex {
	return NewRMutexWithClock(types.NewRealClock())
}

// NewRMutexWithClock creates a new RMutex with the specified clock
func NewRMutexWithClock(clock types.Clock) *RMutex {
	return &RMutex{inner: NewMutexWithClock(clock)}
}

// Acquire obtains the lock, recursively if the caller already holds it.
func (r *RMutex) Acquire(block bool, timeout time.Duration) bool {
	me := goid.ID()

	r.mu.Lock()
	if r.owner == me && r.count > 0 {
		r.count++
		r.mu.Unlock()
		return true
	}
	r.mu.Unlock()

	if !r.inner.Acquire(block, timeout) {
		return false
	}

	r.mu.Lock()
	r.owner = me
	r.count = 1
	r.mu.Unlock()
	return true
}

// Release drops one level of ownership. Only the owning goroutine may release.
func (r *RMutex) Release() error {
	me := goid.ID()

	r.mu.Lock()
	if r.owner != me || r.count == 0 {
		r.mu.Unlock()
		return types.ErrNotHeld
	}
	r.count--
	if r.count > 0 {
		r.mu.Unlock()
		return nil
	}
	r.owner = 0
	r.mu.Unlock()
	return r.inner.Release()
}

// Lock implements sync.Locker
func (r *RMutex) Lock() {
	r.Acquire(true, 0)
}

// Unlock implements sync.Locker
func (r *RMutex) Unlock() {
	if err := r.Release(); err != nil {
		panic(err)
	}
}
