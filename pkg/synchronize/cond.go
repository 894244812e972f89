package synchronize

import (
	"sync"
	"time"

	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

// Cond is a condition variable with timed waits, built over any sync.Locker
// (including this package's Mutex and RMutex, which is how the emulated API
// constructs conditions from its own lock wrappers).
//
// The standard library Cond cannot be used here because its Wait has no
// timeout; waiters are therefore parked on per-waiter channels.
type Cond struct {
	// L is held by callers of Wait, WaitFor and the Notify methods.
	L sync.Locker

	mu      sync.Mutex
	waiters []chan struct{}
	clock   types.Clock
}

// NewCond creates a condition variable over l. A nil l allocates a fresh
// reentrant lock, mirroring the emulated constructor's default.
func NewCond(l sync.Locker) *Cond {
	return NewCondWithClock(l, types.NewRealClock())
}

// NewCondWithClock creates a condition variable with the specified clock
func NewCondWithClock(l sync.Locker, clock types.Clock) *Cond {
	if l == nil {
		l = NewRMutexWithClock(clock)
	}
	if clock == nil {
		clock = types.NewRealClock()
	}
	return &Cond{L: l, clock: clock}
}

// Wait releases L, blocks until notified or the timeout elapses, and
// reacquires L before returning. Returns false only on timeout. L must be
// held on entry. A timeout of zero or less waits forever.
func (c *Cond) Wait(timeout time.Duration) bool {
	ch := make(chan struct{})
	c.mu.Lock()
	c.waiters = append(c.waiters, ch)
	c.mu.Unlock()

	c.L.Unlock()
	defer c.L.Lock()

	if timeout <= 0 {
		<-ch
		return true
	}

	timer := c.clock.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
		return true
	case <-timer.C():
		// A notification may have raced the timer; if the waiter entry is
		// already gone it was consumed by Notify and counts as a wakeup.
		return !c.remove(ch)
	}
}

// WaitFor repeatedly waits until pred reports true or the timeout elapses.
// L must be held on entry; pred is evaluated with L held. Returns the final
// value of pred.
func (c *Cond) WaitFor(pred func() bool, timeout time.Duration) bool {
	var deadline time.Time
	if timeout > 0 {
		deadline = c.clock.Now().Add(timeout)
	}
	for !pred() {
		if timeout <= 0 {
			c.Wait(0)
			continue
		}
		remaining := deadline.Sub(c.clock.Now())
		if remaining <= 0 {
			return pred()
		}
		c.Wait(remaining)
	}
	return true
}

// Notify wakes up to n waiters.
func (c *Cond) Notify(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < n && len(c.waiters) > 0; i++ {
		ch := c.waiters[0]
		c.waiters = c.waiters[1:]
		close(ch)
	}
}

// NotifyAll wakes every waiter.
func (c *Cond) NotifyAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.waiters {
		close(ch)
	}
	c.waiters = nil
}

// remove unregisters a waiter, reporting whether it was still registered.
func (c *Cond) remove(ch chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, w := range c.waiters {
		if w == ch {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return true
		}
	}
	return false
}
