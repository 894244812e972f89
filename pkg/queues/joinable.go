package queues

import (
	"time"

	"github.com/AFDudley/briefcase-test-sub000/pkg/synchronize"
	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

// JoinableQueue extends Queue with task accounting: every Put increments an
// unfinished counter, every TaskDone decrements it, and Join blocks until
// the counter returns to zero.
type JoinableQueue struct {
	*Queue
	acct       *synchronize.Mutex
	finished   *synchronize.Cond
	unfinished int
}

// NewJoinableQueue creates a joinable queue. A maxsize of zero or less means
// unbounded.
func NewJoinableQueue(maxsize int) *JoinableQueue {
	return NewJoinableQueueWithClock(maxsize, types.NewRealClock())
}

// NewJoinableQueueWithClock creates a joinable queue with the specified clock
func NewJoinableQueueWithClock(maxsize int, clock types.Clock) *JoinableQueue {
	if clock == nil {
		clock = types.NewRealClock()
	}
	acct := synchronize.NewMutexWithClock(clock)
	return &JoinableQueue{
		Queue:    NewQueueWithClock(maxsize, clock),
		acct:     acct,
		finished: synchronize.NewCondWithClock(acct, clock),
	}
}

// Put appends an item and records it as unfinished work.
func (q *JoinableQueue) Put(item interface{}, block bool, timeout time.Duration) error {
	if err := q.Queue.Put(item, block, timeout); err != nil {
		return err
	}
	q.acct.Lock()
	q.unfinished++
	q.acct.Unlock()
	return nil
}

// PutNoWait is the non-blocking alias for Put.
func (q *JoinableQueue) PutNoWait(item interface{}) error {
	return q.Put(item, false, 0)
}

// TaskDone records that a previously fetched item has been fully processed.
// Calling it more times than Put fails with ErrTaskDoneOverflow.
func (q *JoinableQueue) TaskDone() error {
	q.acct.Lock()
	defer q.acct.Unlock()

	if q.unfinished <= 0 {
		return types.ErrTaskDoneOverflow
	}
	q.unfinished--
	if q.unfinished == 0 {
		q.finished.NotifyAll()
	}
	return nil
}

// Join blocks until every item that was ever put has been marked done.
func (q *JoinableQueue) Join() {
	q.JoinTimeout(0)
}

// JoinTimeout is Join with an upper bound. Returns false if unfinished work
// remained when the timeout elapsed; a timeout of zero or less waits forever.
func (q *JoinableQueue) JoinTimeout(timeout time.Duration) bool {
	q.acct.Lock()
	defer q.acct.Unlock()
	return q.finished.WaitFor(func() bool { return q.unfinished == 0 }, timeout)
}
