package queues

import (
	"time"

	"github.com/AFDudley/briefcase-test-sub000/pkg/synchronize"
	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

// SimpleQueue is the unbounded, reduced-surface queue variant. Unlike Queue,
// a transported error surfaces in the error position of Get rather than as
// the returned item, which lets task loops propagate worker failures with a
// plain error check.
type SimpleQueue struct {
	mu       *synchronize.Mutex
	notEmpty *synchronize.Cond
	items    []interface{}
	closed   bool
}

// NewSimpleQueue creates an unbounded simple queue.
func NewSimpleQueue() *SimpleQueue {
	return NewSimpleQueueWithClock(types.NewRealClock())
}

// NewSimpleQueueWithClock creates a simple queue with the specified clock
func NewSimpleQueueWithClock(clock types.Clock) *SimpleQueue {
	if clock == nil {
		clock = types.NewRealClock()
	}
	mu := synchronize.NewMutexWithClock(clock)
	return &SimpleQueue{
		mu:       mu,
		notEmpty: synchronize.NewCondWithClock(mu, clock),
	}
}

// Put appends an item. The queue is unbounded so Put never blocks; errors
// are wrapped for transport.
func (q *SimpleQueue) Put(item interface{}) error {
	if err, ok := item.(error); ok {
		item = wrapError(err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return types.ErrQueueClosed
	}
	q.items = append(q.items, item)
	q.notEmpty.Notify(1)
	return nil
}

// Get removes and returns the oldest item, blocking until one is available
// or the timeout elapses. A transported error is returned in the error
// position with a nil item.
func (q *SimpleQueue) Get(block bool, timeout time.Duration) (interface{}, error) {
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

	if env, ok := item.(*envelope); ok {
		return nil, unwrapError(env)
	}
	return item, nil
}

// Empty reports whether the queue has no items.
func (q *SimpleQueue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0
}

// Close marks the queue closed and wakes blocked consumers.
func (q *SimpleQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.notEmpty.NotifyAll()
}
