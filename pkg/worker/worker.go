package worker

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AFDudley/briefcase-test-sub000/internal/goid"
	"github.com/AFDudley/briefcase-test-sub000/pkg/logger"
	"github.com/AFDudley/briefcase-test-sub000/pkg/synchronize"
	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

// State defines the lifecycle state of a Worker
type State int32

const (
	// StateInitial represents a worker that has not been started
	StateInitial State = iota
	// StateRunning represents a started worker whose body has not finished
	StateRunning
	// StateStopped represents a worker whose body has finished
	StateStopped
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Exit codes reported by Exitcode, mirroring process conventions: zero for
// success, one for a failed or panicked body, negative SIGTERM for a worker
// terminated before its body ever dispatched.
const (
	ExitSuccess    = 0
	ExitFailure    = 1
	ExitTerminated = -15
)

// Runner is the subclass-style entry point. A worker configured with a
// Runner executes Run instead of the callable target.
type Runner interface {
	Run() (interface{}, error)
}

// Config describes a worker before it starts. Exactly one of Target and
// Runner is normally set; with neither, the worker body is a no-op that
// succeeds immediately.
type Config struct {
	Name   string
	Daemon bool
	Target func() (interface{}, error)
	Runner Runner
	Logger logger.Logger
	Clock  types.Clock
	// Extra carries caller-defined construction attributes, available to a
	// Runner that also receives the worker.
	Extra map[string]interface{}
}

// Worker runs a single body on its own goroutine with a process-style
// lifecycle: start once, join with an optional timeout, observe an exit
// code, and collect the result or the failure that ended the body.
type Worker struct {
	mu     sync.RWMutex
	name   string
	daemon bool

	target func() (interface{}, error)
	runner Runner
	extra  map[string]interface{}

	state     int32 // atomic State
	pid       int64 // goroutine id of the body, set on start
	pidOnce   chan struct{}
	exitcode  int32
	exitSet   int32 // atomic bool
	terminate *synchronize.Event
	done      chan struct{}

	result  interface{}
	failure error
	trace   string

	log   logger.Logger
	clock types.Clock
}

var workerSeq int64

// New creates a worker from cfg. The worker does not run until Start.
func New(cfg Config) *Worker {
	clock := cfg.Clock
	if clock == nil {
		clock = types.NewRealClock()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("Worker-%d", atomic.AddInt64(&workerSeq, 1))
	}

	return &Worker{
		name:      name,
		daemon:    cfg.Daemon,
		target:    cfg.Target,
		runner:    cfg.Runner,
		extra:     cfg.Extra,
		state:     int32(StateInitial),
		pidOnce:   make(chan struct{}),
		terminate: synchronize.NewEventWithClock(clock),
		done:      make(chan struct{}),
		log:       log.WithWorker(name),
		clock:     clock,
	}
}

// Start launches the worker body. Starting twice fails with
// ErrAlreadyStarted.
func (w *Worker) Start() error {
	if !atomic.CompareAndSwapInt32(&w.state, int32(StateInitial), int32(StateRunning)) {
		return types.ErrAlreadyStarted
	}

	w.log.Debug("worker starting")
	go w.run()
	// The body publishes its goroutine id before dispatching, so Pid is
	// valid as soon as Start returns.
	<-w.pidOnce
	return nil
}

func (w *Worker) run() {
	atomic.StoreInt64(&w.pid, goid.ID())
	close(w.pidOnce)

	defer func() {
		atomic.StoreInt32(&w.state, int32(StateStopped))
		close(w.done)
	}()

	// A terminate request that arrived before the body dispatched wins.
	if w.terminate.IsSet() {
		w.finish(nil, nil, "", ExitTerminated)
		w.log.Debug("worker terminated before dispatch")
		return
	}

	result, trace, err := w.dispatch()

	// The terminate flag only matters before dispatch; once the body has
	// run, a normal return is a clean exit regardless of the flag.
	if err != nil {
		w.finish(nil, err, trace, ExitFailure)
		w.log.Error("worker failed", logger.F("error", err))
		return
	}
	w.finish(result, nil, "", ExitSuccess)
	w.log.Debug("worker finished")
}

// dispatch runs the configured body with panic recovery.
func (w *Worker) dispatch() (result interface{}, trace string, err error) {
	defer func() {
		if r := recover(); r != nil {
			var buf [4096]byte
			n := runtime.Stack(buf[:], false)
			trace = string(buf[:n])
			result = nil

			switch v := r.(type) {
			case error:
				err = v
			default:
				err = fmt.Errorf("panic: %v", v)
			}
		}
	}()

	// An explicit target wins; the Runner hook is the fallback.
	switch {
	case w.target != nil:
		return runBody(w.target)
	case w.runner != nil:
		return runBody(w.runner.Run)
	default:
		return nil, "", nil
	}
}

func runBody(body func() (interface{}, error)) (interface{}, string, error) {
	result, err := body()
	return result, "", err
}

func (w *Worker) finish(result interface{}, err error, trace string, code int32) {
	w.mu.Lock()
	w.result = result
	w.failure = err
	w.trace = trace
	w.mu.Unlock()
	atomic.StoreInt32(&w.exitcode, code)
	atomic.StoreInt32(&w.exitSet, 1)
}

// Join waits for the worker body to finish. A timeout of zero or less waits
// forever; an expired timeout returns nil with the worker still running,
// matching join semantics where the caller re-checks IsAlive. Joining a
// worker that was never started fails with ErrNotStarted.
func (w *Worker) Join(timeout time.Duration) error {
	if w.State() == StateInitial {
		return types.ErrNotStarted
	}

	if timeout <= 0 {
		<-w.done
		return nil
	}

	timer := w.clock.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-w.done:
	case <-timer.C():
	}
	return nil
}

// Terminate requests that the worker stop. The body observes the request
// cooperatively through TerminateEvent; a request made before Start causes
// the body to exit with ExitTerminated without dispatching.
func (w *Worker) Terminate() {
	w.terminate.Set()
}

// Kill is an alias for Terminate; there is no stronger stop for a
// goroutine-backed worker.
func (w *Worker) Kill() {
	w.Terminate()
}

// TerminateEvent exposes the terminate signal so long-running bodies can
// poll or wait on it.
func (w *Worker) TerminateEvent() *synchronize.Event {
	return w.terminate
}

// Close releases the worker, terminating it and waiting briefly for the
// body to exit. A body that outlives the grace period is logged and left
// to finish on its own; Close never fails for it.
func (w *Worker) Close() error {
	if w.State() == StateRunning {
		w.Terminate()
		if err := w.Join(time.Second); err != nil {
			return err
		}
		if w.IsAlive() {
			w.log.Warn("worker still running at close")
		}
	}
	return nil
}

// State returns the current worker state.
func (w *Worker) State() State {
	return State(atomic.LoadInt32(&w.state))
}

// IsAlive reports whether the body has started and not yet finished.
func (w *Worker) IsAlive() bool {
	return w.State() == StateRunning
}

// Pid returns the goroutine id of the worker body. The second return is
// false before Start.
func (w *Worker) Pid() (int64, bool) {
	if w.State() == StateInitial {
		return 0, false
	}
	return atomic.LoadInt64(&w.pid), true
}

// Exitcode returns the exit code of the finished body. The second return is
// false while the body has not finished.
func (w *Worker) Exitcode() (int, bool) {
	if atomic.LoadInt32(&w.exitSet) == 0 {
		return 0, false
	}
	return int(atomic.LoadInt32(&w.exitcode)), true
}

// Result returns the value produced by the body. It fails with
// ErrNotStarted before Start, ErrStillRunning while the body runs, and
// re-surfaces the body's failure after an unsuccessful run.
func (w *Worker) Result() (interface{}, error) {
	switch w.State() {
	case StateInitial:
		return nil, types.ErrNotStarted
	case StateRunning:
		return nil, types.ErrStillRunning
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.failure != nil {
		return nil, w.failure
	}
	return w.result, nil
}

// Err returns the failure that ended the body, if any. Valid once the body
// has finished.
func (w *Worker) Err() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.failure
}

// Trace returns the captured stack of a panicked body, or empty.
func (w *Worker) Trace() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.trace
}

// Name returns the worker name.
func (w *Worker) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.name
}

// SetName renames the worker.
func (w *Worker) SetName(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.name = name
}

// Daemon reports whether the worker is a daemon. Daemon workers are not
// waited on at shutdown.
func (w *Worker) Daemon() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.daemon
}

// SetDaemon changes the daemon flag. Fails with ErrAlreadyStarted once the
// worker has started.
func (w *Worker) SetDaemon(daemon bool) error {
	if w.State() != StateInitial {
		return types.ErrAlreadyStarted
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.daemon = daemon
	return nil
}

// Extra returns the construction attribute stored under key.
func (w *Worker) Extra(key string) (interface{}, bool) {
	v, ok := w.extra[key]
	return v, ok
}
