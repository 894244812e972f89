// Package queues provides the thread-safe FIFO channels of the compatibility
// layer, including the error-envelope transport that carries failures from a
// worker back to its coordinator.
package queues

import (
	"time"

	"github.com/AFDudley/briefcase-test-sub000/pkg/synchronize"
	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

// Queue is a FIFO channel with optional capacity. Error-typed items are
// wrapped in a transport envelope on Put; Get unwraps them and returns the
// reconstructed error as the item, so consumers can type-check it. A final
// results queue shared between workers and a coordinator relies on this.
type Queue struct {
	mu       *synchronize.Mutex
	notEmpty *synchronize.Cond
	notFull  *synchronize.Cond
	items    []interface{}
	maxsize  int
	closed   bool
	clock    types.Clock
}

// NewQueue creates a queue. A maxsize of zero or less means unbounded.
func NewQueue(maxsize int) *Queue {
	return NewQueueWithClock(maxsize, types.NewRealClock())
}

// NewQueueWithClock creates a queue with the specified clock
func NewQueueWithClock(maxsize int, clock types.Clock) *Queue {
	if clock == nil {
		clock = types.NewRealClock()
	}
	mu := synchronize.NewMutexWithClock(clock)
	return &Queue{
		mu:       mu,
		notEmpty: synchronize.NewCondWithClock(mu, clock),
		notFull:  synchronize.NewCondWithClock(mu, clock),
		maxsize:  maxsize,
		clock:    clock,
	}
}

// Put appends an item. With block=false a full queue fails immediately with
// ErrQueueFull; with a positive timeout the same error is returned once the
// timeout elapses. Errors are wrapped for transport before insertion.
func (q *Queue) Put(item interface{}, block bool, timeout time.Duration) error {
	if err, ok := item.(error); ok {
		item = wrapError(err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return types.ErrQueueClosed
	}

	if q.full() {
		if !block {
			return types.ErrQueueFull
		}
		ok := q.notFull.WaitFor(func() bool { return q.closed || !q.full() }, timeout)
		if q.closed {
			return types.ErrQueueClosed
		}
		if !ok {
			return types.ErrQueueFull
		}
	}

	q.items = append(q.items, item)
	q.notEmpty.Notify(1)
	return nil
}

// Get removes and returns the oldest item. An empty queue fails with
// ErrQueueEmpty under the same blocking rules as Put. A transported error
// comes back as the returned item, reconstructed through the envelope tiers.
func (q *Queue) Get(block bool, timeout time.Duration) (interface{}, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, types.ErrQueueClosed
	}

	if len(q.items) == 0 {
		if !block {
			return nil, types.ErrQueueEmpty
		}
		ok := q.notEmpty.WaitFor(func() bool { return q.closed || len(q.items) > 0 }, timeout)
		if q.closed {
			return nil, types.ErrQueueClosed
		}
		if !ok {
			return nil, types.ErrQueueEmpty
		}
	}

	item := q.items[0]
	q.items = q.items[1:]
	q.notFull.Notify(1)

	if env, ok := item.(*envelope); ok {
		return unwrapError(env), nil
	}
	return item, nil
}

// PutNoWait is the non-blocking alias for Put.
func (q *Queue) PutNoWait(item interface{}) error {
	return q.Put(item, false, 0)
}

// GetNoWait is the non-blocking alias for Get.
func (q *Queue) GetNoWait() (interface{}, error) {
	return q.Get(false, 0)
}

// Empty reports whether the queue has no items. Approximate under concurrent
// access, as is standard for this kind of primitive.
func (q *Queue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0
}

// Full reports whether a bounded queue is at capacity.
func (q *Queue) Full() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.full()
}

// Qsize returns the approximate number of queued items.
func (q *Queue) Qsize() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close marks the queue closed. Further operations fail with ErrQueueClosed;
// blocked producers and consumers are woken.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.notEmpty.NotifyAll()
	q.notFull.NotifyAll()
}

// JoinThread exists for interface compatibility; Put is synchronous in this
// design, there is no feeder thread to join.
func (q *Queue) JoinThread() {}

// CancelJoinThread exists for interface compatibility; it is a no-op.
func (q *Queue) CancelJoinThread() {}

func (q *Queue) full() bool {
	return q.maxsize > 0 && len(q.items) >= q.maxsize
}
