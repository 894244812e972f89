// Package provider defines the concurrency provider surface: a single
// factory object through which the rest of the system obtains workers,
// queues, and synchronization primitives. Swapping the installed provider
// swaps the backing implementation everywhere at once.
package provider

import (
	"sync"

	"github.com/AFDudley/briefcase-test-sub000/pkg/pool"
	"github.com/AFDudley/briefcase-test-sub000/pkg/queues"
	"github.com/AFDudley/briefcase-test-sub000/pkg/synchronize"
	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
	"github.com/AFDudley/briefcase-test-sub000/pkg/worker"
)

// StartMethodGoroutine is the only start method the goroutine provider
// supports.
const StartMethodGoroutine = "goroutine"

// Provider is the factory surface for concurrency objects.
type Provider interface {
	NewWorker(cfg worker.Config) *worker.Worker
	NewPool(cfg pool.Config) (*pool.Pool, error)

	NewQueue(maxsize int) *queues.Queue
	NewSimpleQueue() *queues.SimpleQueue
	NewJoinableQueue(maxsize int) *queues.JoinableQueue

	NewMutex() *synchronize.Mutex
	NewRMutex() *synchronize.RMutex
	NewSemaphore(value int) *synchronize.Semaphore
	NewBoundedSemaphore(value int) *synchronize.BoundedSemaphore
	NewEvent() *synchronize.Event
	NewCond(l sync.Locker) *synchronize.Cond
	NewBarrier(parties int, action func()) *synchronize.Barrier

	// StartMethod reports how workers are backed.
	StartMethod() string
	// SetStartMethod selects a start method. The goroutine provider accepts
	// only StartMethodGoroutine and fails with ErrBadStartMethod otherwise.
	SetStartMethod(method string) error
	// AllStartMethods lists the start methods this provider supports.
	AllStartMethods() []string
	// GetContext returns the provider for the given start method, which for
	// a single-method provider is itself.
	GetContext(method string) (Provider, error)
}

// GoroutineProvider backs every concurrency object with goroutines and the
// in-process primitives of this module.
type GoroutineProvider struct {
	clock types.Clock
}

// NewGoroutineProvider creates a provider using the real clock.
func NewGoroutineProvider() *GoroutineProvider {
	return NewGoroutineProviderWithClock(types.NewRealClock())
}

// NewGoroutineProviderWithClock creates a provider with the specified clock
func NewGoroutineProviderWithClock(clock types.Clock) *GoroutineProvider {
	if clock == nil {
		clock = types.NewRealClock()
	}
	return &GoroutineProvider{clock: clock}
}

// NewWorker creates a worker, defaulting its clock to the provider's.
func (p *GoroutineProvider) NewWorker(cfg worker.Config) *worker.Worker {
	if cfg.Clock == nil {
		cfg.Clock = p.clock
	}
	return worker.New(cfg)
}

// NewPool creates and starts a worker pool.
func (p *GoroutineProvider) NewPool(cfg pool.Config) (*pool.Pool, error) {
	if cfg.Clock == nil {
		cfg.Clock = p.clock
	}
	return pool.New(cfg)
}

// NewQueue creates a queue. A maxsize of zero or less means unbounded.
func (p *GoroutineProvider) NewQueue(maxsize int) *queues.Queue {
	return queues.NewQueueWithClock(maxsize, p.clock)
}

// NewSimpleQueue creates an unbounded simple queue.
func (p *GoroutineProvider) NewSimpleQueue() *queues.SimpleQueue {
	return queues.NewSimpleQueueWithClock(p.clock)
}

// NewJoinableQueue creates a joinable queue.
func (p *GoroutineProvider) NewJoinableQueue(maxsize int) *queues.JoinableQueue {
	return queues.NewJoinableQueueWithClock(maxsize, p.clock)
}

// NewMutex creates a mutex.
func (p *GoroutineProvider) NewMutex() *synchronize.Mutex {
	return synchronize.NewMutexWithClock(p.clock)
}

// NewRMutex creates a reentrant mutex.
func (p *GoroutineProvider) NewRMutex() *synchronize.RMutex {
	return synchronize.NewRMutexWithClock(p.clock)
}

// NewSemaphore creates a counting semaphore.
func (p *GoroutineProvider) NewSemaphore(value int) *synchronize.Semaphore {
	return synchronize.NewSemaphoreWithClock(value, p.clock)
}

// NewBoundedSemaphore creates a semaphore that rejects over-release.
func (p *GoroutineProvider) NewBoundedSemaphore(value int) *synchronize.BoundedSemaphore {
	return synchronize.NewBoundedSemaphoreWithClock(value, p.clock)
}

// NewEvent creates an event.
func (p *GoroutineProvider) NewEvent() *synchronize.Event {
	return synchronize.NewEventWithClock(p.clock)
}

// NewCond creates a condition variable. A nil locker allocates a reentrant
// mutex.
func (p *GoroutineProvider) NewCond(l sync.Locker) *synchronize.Cond {
	if l == nil {
		l = p.NewRMutex()
	}
	return synchronize.NewCondWithClock(l, p.clock)
}

// NewBarrier creates a barrier for the given party count.
func (p *GoroutineProvider) NewBarrier(parties int, action func()) *synchronize.Barrier {
	return synchronize.NewBarrierWithClock(parties, action, p.clock)
}

// StartMethod reports how workers are backed.
func (p *GoroutineProvider) StartMethod() string {
	return StartMethodGoroutine
}

// SetStartMethod accepts only StartMethodGoroutine.
func (p *GoroutineProvider) SetStartMethod(method string) error {
	if method != StartMethodGoroutine {
		return types.ErrBadStartMethod
	}
	return nil
}

// AllStartMethods lists the supported start methods.
func (p *GoroutineProvider) AllStartMethods() []string {
	return []string{StartMethodGoroutine}
}

// GetContext returns this provider when asked for the goroutine start
// method, or an empty method.
func (p *GoroutineProvider) GetContext(method string) (Provider, error) {
	if method != "" && method != StartMethodGoroutine {
		return nil, types.ErrBadStartMethod
	}
	return p, nil
}
