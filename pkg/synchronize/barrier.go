package synchronize

import (
	"sync"
	"time"

	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

// Barrier blocks a fixed number of parties until all have arrived. A timed-out
// or aborted wait breaks the barrier: current waiters and all future ones get
// ErrBarrierBroken until Reset is called.
type Barrier struct {
	parties int
	action  func()
	clock   types.Clock

	mu     sync.Mutex
	count  int
	broken bool
	gen    *barrierGen
}

// barrierGen is one arrival round; release is closed when the round ends,
// either by tripping or by breaking.
type barrierGen struct {
	release chan struct{}
	broken  bool
}

// NewBarrier creates a barrier for the given number of parties. The optional
// action runs once per trip, in the last arriving goroutine, before waiters
// are released.
func NewBarrier(parties int, action func()) *Barrier {
	return NewBarrierWithClock(parties, action, types.NewRealClock())
}

// NewBarrierWithClock creates a barrier with the specified clock
func NewBarrierWithClock(parties int, action func(), clock types.Clock) *Barrier {
	if clock == nil {
		clock = types.NewRealClock()
	}
	return &Barrier{
		parties: parties,
		action:  action,
		clock:   clock,
		gen:     &barrierGen{release: make(chan struct{})},
	}
}

// Wait blocks until all parties have arrived, returning this caller's arrival
// index (0..parties-1). A timeout of zero or less waits forever; a positive
// timeout that elapses breaks the barrier.
func (b *Barrier) Wait(timeout time.Duration) (int, error) {
	b.mu.Lock()
	if b.broken {
		b.mu.Unlock()
		return -1, types.ErrBarrierBroken
	}

	index := b.count
	b.count++
	gen := b.gen

	if b.count == b.parties {
		if b.action != nil {
			b.action()
		}
		b.count = 0
		b.gen = &barrierGen{release: make(chan struct{})}
		close(gen.release)
		b.mu.Unlock()
		return index, nil
	}
	b.mu.Unlock()

	if timeout <= 0 {
		<-gen.release
	} else {
		timer := b.clock.NewTimer(timeout)
		select {
		case <-gen.release:
			timer.Stop()
		case <-timer.C():
			b.breakGen(gen)
		}
	}

	if gen.broken {
		return -1, types.ErrBarrierBroken
	}
	return index, nil
}

// breakGen breaks the barrier unless gen was already released by a trip that
// raced the timeout.
func (b *Barrier) breakGen(gen *barrierGen) {
	b.mu.Lock()
	defer b.mu.Unlock()
	select {
	case <-gen.release:
		return
	default:
	}
	gen.broken = true
	close(gen.release)
	b.broken = true
	b.count = 0
	b.gen = &barrierGen{release: make(chan struct{})}
}

// Abort puts the barrier into the broken state, waking current waiters with
// an error.
func (b *Barrier) Abort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.breakLocked()
	b.broken = true
}

// Reset returns the barrier to its initial empty state. Goroutines currently
// waiting are released with ErrBarrierBroken.
func (b *Barrier) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.breakLocked()
	b.broken = false
}

// breakLocked releases the current generation as broken. Callers hold b.mu.
func (b *Barrier) breakLocked() {
	select {
	case <-b.gen.release:
	default:
		b.gen.broken = true
		close(b.gen.release)
	}
	b.count = 0
	b.gen = &barrierGen{release: make(chan struct{})}
}

// Parties returns the number of parties required to trip the barrier.
func (b *Barrier) Parties() int {
	return b.parties
}

// NWaiting returns the number of parties currently blocked in Wait.
func (b *Barrier) NWaiting() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Broken reports whether the barrier is in the broken state.
func (b *Barrier) Broken() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.broken
}
