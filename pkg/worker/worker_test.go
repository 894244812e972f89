package worker

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AFDudley/briefcase-test-sub000/pkg/queues"
	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

func TestWorker_TargetSuccess(t *testing.T) {
	w := New(Config{
		Name:   "collector",
		Target: func() (interface{}, error) { return 42, nil },
	})

	assert.Equal(t, StateInitial, w.State())
	require.NoError(t, w.Start())
	require.NoError(t, w.Join(time.Second))

	assert.Equal(t, StateStopped, w.State())
	assert.False(t, w.IsAlive())

	code, ok := w.Exitcode()
	require.True(t, ok)
	assert.Equal(t, ExitSuccess, code)

	result, err := w.Result()
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestWorker_TargetFailure(t *testing.T) {
	boom := errors.New("boom")
	w := New(Config{Target: func() (interface{}, error) { return nil, boom }})

	require.NoError(t, w.Start())
	require.NoError(t, w.Join(time.Second))

	code, ok := w.Exitcode()
	require.True(t, ok)
	assert.Equal(t, ExitFailure, code)

	// Join stays silent; the failure surfaces through Result and Err.
	_, err := w.Result()
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, w.Err(), boom)
}

func TestWorker_PanicRecovery(t *testing.T) {
	w := New(Config{Target: func() (interface{}, error) { panic("unexpected state") }})

	require.NoError(t, w.Start())
	require.NoError(t, w.Join(time.Second))

	code, ok := w.Exitcode()
	require.True(t, ok)
	assert.Equal(t, ExitFailure, code)

	_, err := w.Result()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected state")
	assert.Contains(t, w.Trace(), "goroutine")
}

type countingRunner struct {
	calls int64
}

func (r *countingRunner) Run() (interface{}, error) {
	atomic.AddInt64(&r.calls, 1)
	return "ran", nil
}

func TestWorker_RunnerDispatch(t *testing.T) {
	r := &countingRunner{}
	w := New(Config{Runner: r})

	require.NoError(t, w.Start())
	require.NoError(t, w.Join(time.Second))

	result, err := w.Result()
	require.NoError(t, err)
	assert.Equal(t, "ran", result)
	assert.Equal(t, int64(1), atomic.LoadInt64(&r.calls))
}

func TestWorker_TargetWinsOverRunner(t *testing.T) {
	r := &countingRunner{}
	w := New(Config{
		Target: func() (interface{}, error) { return "target", nil },
		Runner: r,
	})

	require.NoError(t, w.Start())
	require.NoError(t, w.Join(time.Second))

	result, err := w.Result()
	require.NoError(t, err)
	assert.Equal(t, "target", result)
	assert.Equal(t, int64(0), atomic.LoadInt64(&r.calls))
}

func TestWorker_NoBodySucceeds(t *testing.T) {
	w := New(Config{})

	require.NoError(t, w.Start())
	require.NoError(t, w.Join(time.Second))

	code, ok := w.Exitcode()
	require.True(t, ok)
	assert.Equal(t, ExitSuccess, code)
}

func TestWorker_DoubleStartFails(t *testing.T) {
	w := New(Config{Target: func() (interface{}, error) { return nil, nil }})

	require.NoError(t, w.Start())
	assert.ErrorIs(t, w.Start(), types.ErrAlreadyStarted)
	require.NoError(t, w.Join(time.Second))
}

func TestWorker_JoinBeforeStartFails(t *testing.T) {
	w := New(Config{})
	assert.ErrorIs(t, w.Join(time.Second), types.ErrNotStarted)
}

func TestWorker_ResultLifecycleErrors(t *testing.T) {
	release := make(chan struct{})
	w := New(Config{Target: func() (interface{}, error) {
		<-release
		return nil, nil
	}})

	_, err := w.Result()
	assert.ErrorIs(t, err, types.ErrNotStarted)

	require.NoError(t, w.Start())
	_, err = w.Result()
	assert.ErrorIs(t, err, types.ErrStillRunning)

	close(release)
	require.NoError(t, w.Join(time.Second))
	_, err = w.Result()
	assert.NoError(t, err)
}

func TestWorker_TerminateBeforeStart(t *testing.T) {
	var dispatched int64
	w := New(Config{Target: func() (interface{}, error) {
		atomic.AddInt64(&dispatched, 1)
		return nil, nil
	}})

	w.Terminate()
	require.NoError(t, w.Start())
	require.NoError(t, w.Join(time.Second))

	code, ok := w.Exitcode()
	require.True(t, ok)
	assert.Equal(t, ExitTerminated, code)
	assert.Equal(t, int64(0), atomic.LoadInt64(&dispatched))
}

func TestWorker_TerminateDuringRun(t *testing.T) {
	// A body that notices the terminate request and returns normally
	// still exits clean. Only terminate-before-start reports -15.
	var w *Worker
	w = New(Config{Target: func() (interface{}, error) {
		w.TerminateEvent().Wait(time.Second)
		return "stopped", nil
	}})

	require.NoError(t, w.Start())
	w.Terminate()
	require.NoError(t, w.Join(time.Second))

	code, ok := w.Exitcode()
	require.True(t, ok)
	assert.Equal(t, ExitSuccess, code)

	result, err := w.Result()
	require.NoError(t, err)
	assert.Equal(t, "stopped", result)
}

func TestWorker_JoinTimeoutLeavesWorkerAlive(t *testing.T) {
	release := make(chan struct{})
	w := New(Config{Target: func() (interface{}, error) {
		<-release
		return nil, nil
	}})

	require.NoError(t, w.Start())
	require.NoError(t, w.Join(30*time.Millisecond))
	assert.True(t, w.IsAlive())

	close(release)
	require.NoError(t, w.Join(time.Second))
	assert.False(t, w.IsAlive())
}

func TestWorker_PidAvailableAfterStart(t *testing.T) {
	w := New(Config{Target: func() (interface{}, error) { return nil, nil }})

	_, ok := w.Pid()
	assert.False(t, ok)

	require.NoError(t, w.Start())
	pid, ok := w.Pid()
	assert.True(t, ok)
	assert.Greater(t, pid, int64(0))
	require.NoError(t, w.Join(time.Second))
}

func TestWorker_NameAndDaemon(t *testing.T) {
	w := New(Config{Name: "scout", Daemon: true})
	assert.Equal(t, "scout", w.Name())
	assert.True(t, w.Daemon())

	w.SetName("scout-2")
	assert.Equal(t, "scout-2", w.Name())

	require.NoError(t, w.SetDaemon(false))
	require.NoError(t, w.Start())
	assert.ErrorIs(t, w.SetDaemon(true), types.ErrAlreadyStarted)
	require.NoError(t, w.Join(time.Second))
}

func TestWorker_DefaultNamesAreUnique(t *testing.T) {
	a := New(Config{})
	b := New(Config{})
	assert.NotEqual(t, a.Name(), b.Name())
	assert.Contains(t, a.Name(), "Worker-")
}

func TestWorker_ExtraAttributes(t *testing.T) {
	w := New(Config{Extra: map[string]interface{}{"host": "device-1"}})

	host, ok := w.Extra("host")
	require.True(t, ok)
	assert.Equal(t, "device-1", host)

	_, ok = w.Extra("missing")
	assert.False(t, ok)
}

func TestWorker_CloseStoppedWorker(t *testing.T) {
	w := New(Config{Target: func() (interface{}, error) { return nil, nil }})
	require.NoError(t, w.Start())
	require.NoError(t, w.Join(time.Second))
	assert.NoError(t, w.Close())
}

func TestWorker_CloseTerminatesCooperativeBody(t *testing.T) {
	var w *Worker
	w = New(Config{Target: func() (interface{}, error) {
		w.TerminateEvent().Wait(5 * time.Second)
		return nil, nil
	}})

	require.NoError(t, w.Start())
	assert.NoError(t, w.Close())
	assert.False(t, w.IsAlive())
}

func TestWorker_CloseIgnoresStubbornBody(t *testing.T) {
	release := make(chan struct{})
	w := New(Config{Target: func() (interface{}, error) {
		<-release
		return nil, nil
	}})

	require.NoError(t, w.Start())

	// The body ignores the terminate request, so the bounded join inside
	// Close expires. That is logged, not reported as an error.
	assert.NoError(t, w.Close())
	assert.True(t, w.IsAlive())

	close(release)
	require.NoError(t, w.Join(time.Second))
}

// Three workers each deposit their index on a shared results queue; the
// coordinator drains exactly that set.
func TestWorker_ResultsQueueScenario(t *testing.T) {
	q := queues.NewQueue(0)

	workers := make([]*Worker, 3)
	for i := 0; i < 3; i++ {
		idx := i
		workers[i] = New(Config{Target: func() (interface{}, error) {
			return nil, q.Put(idx, true, time.Second)
		}})
		require.NoError(t, workers[i].Start())
	}

	for _, w := range workers {
		require.NoError(t, w.Join(time.Second))
		_, err := w.Result()
		require.NoError(t, err)
	}

	seen := map[int]bool{}
	for i := 0; i < 3; i++ {
		item, err := q.Get(true, time.Second)
		require.NoError(t, err)
		seen[item.(int)] = true
	}
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, seen)
}
