package synchronize

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

func TestMutex_AcquireRelease(t *testing.T) {
	m := NewMutex()

	assert.True(t, m.Acquire(true, 0))
	assert.False(t, m.Acquire(false, 0))
	assert.NoError(t, m.Release())
	assert.True(t, m.Acquire(false, 0))
	assert.NoError(t, m.Release())
}

func TestMutex_ReleaseUnheld(t *testing.T) {
	m := NewMutex()
	assert.ErrorIs(t, m.Release(), types.ErrNotHeld)
}

func TestMutex_AcquireTimeout(t *testing.T) {
	m := NewMutex()
	assert.True(t, m.Acquire(true, 0))

	start := time.Now()
	ok := m.Acquire(true, 50*time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}

func TestMutex_AcquireSucceedsBeforeTimeout(t *testing.T) {
	m := NewMutex()
	assert.True(t, m.Acquire(true, 0))

	go func() {
		time.Sleep(10 * time.Millisecond)
		m.Release()
	}()

	assert.True(t, m.Acquire(true, time.Second))
	assert.NoError(t, m.Release())
}

func TestMutex_MutualExclusion(t *testing.T) {
	m := NewMutex()

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Lock()
				counter++
				m.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), counter)
}

func TestRMutex_Reentrant(t *testing.T) {
	r := NewRMutex()

	assert.True(t, r.Acquire(true, 0))
	assert.True(t, r.Acquire(true, 0))
	assert.True(t, r.Acquire(false, 0))

	assert.NoError(t, r.Release())
	assert.NoError(t, r.Release())
	assert.NoError(t, r.Release())
	assert.ErrorIs(t, r.Release(), types.ErrNotHeld)
}

func TestRMutex_BlocksOtherGoroutines(t *testing.T) {
	r := NewRMutex()
	assert.True(t, r.Acquire(true, 0))

	var acquired int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		if r.Acquire(true, 20*time.Millisecond) {
			atomic.StoreInt32(&acquired, 1)
		}
	}()
	<-done

	assert.Equal(t, int32(0), atomic.LoadInt32(&acquired))
	assert.NoError(t, r.Release())
}

func TestRMutex_ReleaseByNonOwner(t *testing.T) {
	r := NewRMutex()
	assert.True(t, r.Acquire(true, 0))

	errCh := make(chan error, 1)
	go func() {
		errCh <- r.Release()
	}()

	assert.ErrorIs(t, <-errCh, types.ErrNotHeld)
	assert.NoError(t, r.Release())
}

func TestRMutex_HandoffBetweenGoroutines(t *testing.T) {
	r := NewRMutex()

	var order []int
	var mu sync.Mutex
	record := func(n int) {
		mu.Lock()
		order = append(order, n)
		mu.Unlock()
	}

	r.Lock()
	record(1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Lock()
		record(2)
		r.Unlock()
	}()

	time.Sleep(10 * time.Millisecond)
	r.Unlock()
	<-done

	assert.Equal(t, []int{1, 2}, order)
}
