package synchronize

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

func TestBarrier_TripReturnsDistinctIndices(t *testing.T) {
	const parties = 3
	b := NewBarrier(parties, nil)

	var wg sync.WaitGroup
	indices := make(chan int, parties)
	for i := 0; i < parties; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx, err := b.Wait(time.Second)
			assert.NoError(t, err)
			indices <- idx
		}()
	}
	wg.Wait()
	close(indices)

	var got []int
	for idx := range indices {
		got = append(got, idx)
	}
	sort.Ints(got)
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.False(t, b.Broken())
	assert.Equal(t, 0, b.NWaiting())
}

func TestBarrier_ActionRunsOncePerTrip(t *testing.T) {
	const parties = 2
	var runs int
	b := NewBarrier(parties, func() { runs++ })

	for round := 0; round < 2; round++ {
		var wg sync.WaitGroup
		for i := 0; i < parties; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := b.Wait(time.Second)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
	}

	assert.Equal(t, 2, runs)
}

func TestBarrier_WaitTimeoutBreaks(t *testing.T) {
	b := NewBarrier(2, nil)

	_, err := b.Wait(30 * time.Millisecond)
	assert.ErrorIs(t, err, types.ErrBarrierBroken)
	assert.True(t, b.Broken())

	// broken state persists for later arrivals
	_, err = b.Wait(time.Millisecond)
	assert.ErrorIs(t, err, types.ErrBarrierBroken)
}

func TestBarrier_AbortWakesWaiters(t *testing.T) {
	b := NewBarrier(2, nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := b.Wait(time.Second)
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, b.NWaiting())
	b.Abort()

	assert.ErrorIs(t, <-errCh, types.ErrBarrierBroken)
	assert.True(t, b.Broken())
}

func TestBarrier_ResetClearsBrokenState(t *testing.T) {
	const parties = 2
	b := NewBarrier(parties, nil)

	b.Abort()
	assert.True(t, b.Broken())

	b.Reset()
	assert.False(t, b.Broken())

	var wg sync.WaitGroup
	for i := 0; i < parties; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.Wait(time.Second)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestBarrier_Parties(t *testing.T) {
	b := NewBarrier(5, nil)
	assert.Equal(t, 5, b.Parties())
	assert.Equal(t, 0, b.NWaiting())
}
