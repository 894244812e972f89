// Package pool provides a fixed-size worker pool with asynchronous result
// handles.
package pool

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AFDudley/briefcase-test-sub000/pkg/logger"
	"github.com/AFDudley/briefcase-test-sub000/pkg/queues"
	"github.com/AFDudley/briefcase-test-sub000/pkg/synchronize"
	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
	"github.com/AFDudley/briefcase-test-sub000/pkg/worker"
)

// Pool state values.
const (
	stateRunning int32 = iota
	stateClosing
	stateTerminated
)

// drainInterval bounds how long an idle pool worker waits before re-checking
// whether the pool is draining.
const drainInterval = 50 * time.Millisecond

// Config defines configuration for a Pool.
type Config struct {
	// Size is the number of pool workers. Zero or less means one worker per
	// CPU.
	Size int

	// QueueSize bounds the pending job queue. Zero or less means unbounded.
	QueueSize int

	Logger logger.Logger
	Clock  types.Clock
}

// Pool executes submitted functions on a fixed set of workers. Close drains
// outstanding jobs before the workers exit; Terminate abandons them.
type Pool struct {
	jobs    *queues.Queue
	workers []*worker.Worker
	state   int32
	clock   types.Clock
	log     logger.Logger
}

type job struct {
	fn  func() (interface{}, error)
	res *AsyncResult
}

// New creates and starts a pool.
func New(cfg Config) (*Pool, error) {
	size := cfg.Size
	if size <= 0 {
		size = runtime.NumCPU()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.NewRealClock()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	p := &Pool{
		jobs:    queues.NewQueueWithClock(cfg.QueueSize, clock),
		workers: make([]*worker.Worker, size),
		clock:   clock,
		log:     log,
	}

	for i := 0; i < size; i++ {
		w := worker.New(worker.Config{
			Name:   fmt.Sprintf("pool-%d", i),
			Target: p.loop,
			Logger: log,
			Clock:  clock,
		})
		if err := w.Start(); err != nil {
			return nil, err
		}
		p.workers[i] = w
	}

	return p, nil
}

// loop is the body of each pool worker.
func (p *Pool) loop() (interface{}, error) {
	for {
		item, err := p.jobs.Get(true, drainInterval)
		if err == types.ErrQueueClosed {
			return nil, nil
		}
		if err == types.ErrQueueEmpty {
			if atomic.LoadInt32(&p.state) != stateRunning {
				return nil, nil
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		j := item.(*job)
		j.res.set(runJob(j.fn))
	}
}

// runJob executes one submitted function, converting a panic into an error
// so the pool worker survives.
func runJob(fn func() (interface{}, error)) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case error:
				err = v
			default:
				err = fmt.Errorf("panic: %v", v)
			}
			result = nil
		}
	}()
	return fn()
}

// ApplyAsync submits fn for execution and returns a handle to its eventual
// result. Fails with ErrQueueClosed after Close or Terminate.
func (p *Pool) ApplyAsync(fn func() (interface{}, error)) (*AsyncResult, error) {
	if atomic.LoadInt32(&p.state) != stateRunning {
		return nil, types.ErrQueueClosed
	}

	res := newAsyncResult(p.clock)
	if err := p.jobs.Put(&job{fn: fn, res: res}, true, 0); err != nil {
		return nil, err
	}
	return res, nil
}

// Apply submits fn and blocks until its result is available.
func (p *Pool) Apply(fn func() (interface{}, error)) (interface{}, error) {
	res, err := p.ApplyAsync(fn)
	if err != nil {
		return nil, err
	}
	return res.Get(0)
}

// Map applies fn to every input concurrently and returns the results in
// input order. The first job error is returned after all jobs finish.
func (p *Pool) Map(fn func(interface{}) (interface{}, error), inputs []interface{}) ([]interface{}, error) {
	handles := make([]*AsyncResult, len(inputs))
	for i, in := range inputs {
		in := in
		res, err := p.ApplyAsync(func() (interface{}, error) { return fn(in) })
		if err != nil {
			return nil, err
		}
		handles[i] = res
	}

	results := make([]interface{}, len(inputs))
	var firstErr error
	for i, res := range handles {
		value, err := res.Get(0)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		results[i] = value
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// Close stops accepting new jobs. Already submitted jobs still run; call
// Join to wait for them.
func (p *Pool) Close() {
	atomic.CompareAndSwapInt32(&p.state, stateRunning, stateClosing)
}

// Terminate stops the pool without draining. Pending jobs are abandoned and
// their result handles never become ready.
func (p *Pool) Terminate() {
	atomic.StoreInt32(&p.state, stateTerminated)
	p.jobs.Close()
}

// Join waits for every pool worker to exit. Call after Close or Terminate;
// a timeout of zero or less waits forever.
func (p *Pool) Join(timeout time.Duration) error {
	for _, w := range p.workers {
		if err := w.Join(timeout); err != nil {
			return err
		}
	}
	return nil
}

// AsyncResult is the handle to a job submitted with ApplyAsync.
type AsyncResult struct {
	mu    sync.Mutex
	ready *synchronize.Event
	value interface{}
	err   error
}

func newAsyncResult(clock types.Clock) *AsyncResult {
	return &AsyncResult{ready: synchronize.NewEventWithClock(clock)}
}

func (r *AsyncResult) set(value interface{}, err error) {
	r.mu.Lock()
	r.value = value
	r.err = err
	r.mu.Unlock()
	r.ready.Set()
}

// Ready reports whether the job has finished.
func (r *AsyncResult) Ready() bool {
	return r.ready.IsSet()
}

// Wait blocks until the job finishes or the timeout elapses. A timeout of
// zero or less waits forever.
func (r *AsyncResult) Wait(timeout time.Duration) bool {
	return r.ready.Wait(timeout)
}

// Get returns the job's result, blocking until it is ready. An expired
// timeout fails with ErrStillRunning.
func (r *AsyncResult) Get(timeout time.Duration) (interface{}, error) {
	if !r.ready.Wait(timeout) {
		return nil, types.ErrStillRunning
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.value, nil
}

// Successful reports whether the job completed without error. Fails with
// ErrStillRunning while the job is pending.
func (r *AsyncResult) Successful() (bool, error) {
	if !r.Ready() {
		return false, types.ErrStillRunning
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err == nil, nil
}
