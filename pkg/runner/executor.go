package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AFDudley/briefcase-test-sub000/pkg/logger"
	"github.com/AFDudley/briefcase-test-sub000/pkg/provider"
	"github.com/AFDudley/briefcase-test-sub000/pkg/queues"
	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
	"github.com/AFDudley/briefcase-test-sub000/pkg/worker"
)

// DefaultStallTimeout bounds how long the coordinator waits for any single
// result before declaring the run stalled.
const DefaultStallTimeout = 60 * time.Second

// Config defines configuration for an Executor.
type Config struct {
	Provider     provider.Provider
	Logger       logger.Logger
	Clock        types.Clock
	StallTimeout time.Duration
}

// Executor runs playbooks. Each inventory host gets a dedicated worker that
// walks every play in order; results flow back over a shared queue that the
// executor drains with a per-result stall timeout.
type Executor struct {
	prov  provider.Provider
	log   logger.Logger
	clock types.Clock
	stall time.Duration
}

// New creates an executor.
func New(cfg Config) *Executor {
	prov := cfg.Provider
	if prov == nil {
		prov = provider.Default()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.NewRealClock()
	}
	stall := cfg.StallTimeout
	if stall <= 0 {
		stall = DefaultStallTimeout
	}
	return &Executor{prov: prov, log: log, clock: clock, stall: stall}
}

// TaskResult records one task execution on one host. A task that failed
// after all retries carries the error text; execution of the host's
// remaining tasks continues regardless.
type TaskResult struct {
	RunID    string
	Host     string
	Play     string
	Task     string
	Value    interface{}
	Error    string
	Attempts int
	Elapsed  time.Duration
}

// Failed reports whether the task ended in error.
func (r TaskResult) Failed() bool {
	return r.Error != ""
}

// Report summarizes a playbook run.
type Report struct {
	RunID   string
	Results []TaskResult
	Failed  int
	Elapsed time.Duration
}

// Run executes the playbook against every inventory host and returns the
// collected results. It fails with ErrRunStalled when no result arrives
// within the stall timeout, which is how a wedged host surfaces instead of
// hanging the coordinator forever.
func (e *Executor) Run(ctx context.Context, pb *Playbook, inv *Inventory) (*Report, error) {
	runID := uuid.NewString()
	started := e.clock.Now()
	results := e.prov.NewQueue(0)

	e.log.Info("run starting",
		logger.F("run_id", runID),
		logger.F("hosts", len(inv.Hosts)),
		logger.F("tasks", pb.TaskCount()))

	workers := make([]*worker.Worker, len(inv.Hosts))
	for i, host := range inv.Hosts {
		hr := &hostRunner{
			exec:    e,
			host:    host,
			pb:      pb,
			results: results,
			runID:   runID,
		}
		workers[i] = e.prov.NewWorker(worker.Config{
			Name:   fmt.Sprintf("host-runner-%s", host.Name),
			Runner: hr,
			Logger: e.log,
			Clock:  e.clock,
			Extra:  map[string]interface{}{"host": host.Name, "index": i},
		})
	}
	for _, w := range workers {
		if err := w.Start(); err != nil {
			return nil, err
		}
	}

	var g errgroup.Group
	for _, w := range workers {
		w := w
		g.Go(func() error {
			if err := w.Join(0); err != nil {
				return err
			}
			_, err := w.Result()
			return err
		})
	}

	expected := len(inv.Hosts) * pb.TaskCount()
	report := &Report{RunID: runID, Results: make([]TaskResult, 0, expected)}

	for len(report.Results) < expected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := results.Get(true, e.stall)
		if err == types.ErrQueueEmpty {
			e.log.Error("run stalled", logger.F("run_id", runID),
				logger.F("received", len(report.Results)), logger.F("expected", expected))
			return nil, types.ErrRunStalled
		}
		if err != nil {
			return nil, err
		}
		res := item.(TaskResult)
		if res.Failed() {
			report.Failed++
		}
		report.Results = append(report.Results, res)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Elapsed = e.clock.Since(started)
	e.log.Info("run finished",
		logger.F("run_id", runID),
		logger.F("failed", report.Failed),
		logger.F("elapsed", report.Elapsed))
	return report, nil
}

// hostRunner walks every play for one host. It is the worker body, so a
// panic in an action is captured by the worker's recovery.
type hostRunner struct {
	exec    *Executor
	host    Host
	pb      *Playbook
	results *queues.Queue
	runID   string
}

// Run implements worker.Runner.
func (h *hostRunner) Run() (interface{}, error) {
	log := h.exec.log.WithWorker(h.host.Name)

	for _, play := range h.pb.Plays {
		for _, task := range play.Tasks {
			res := h.runTask(play, task)
			if res.Failed() {
				log.Warn("task failed", logger.F("task", task.Name),
					logger.F("error", res.Error), logger.F("attempts", res.Attempts))
			} else {
				log.Debug("task ok", logger.F("task", task.Name))
			}
			if err := h.results.Put(res, true, 0); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}

func (h *hostRunner) runTask(play Play, task Task) TaskResult {
	res := TaskResult{
		RunID: h.runID,
		Host:  h.host.Name,
		Play:  play.Name,
		Task:  task.Name,
	}

	fn, ok := lookupAction(task.Action)
	if !ok {
		res.Error = fmt.Sprintf("unknown action %q", task.Action)
		res.Attempts = 1
		return res
	}

	args := make(map[string]interface{}, len(task.Args)+1)
	for k, v := range task.Args {
		args[k] = v
	}
	args[clockArg] = h.exec.clock

	started := h.exec.clock.Now()
	value, attempts, err := runWithRetry(h.exec.clock, policyFor(task), func() (interface{}, error) {
		return fn(h.host, args)
	})
	res.Elapsed = h.exec.clock.Since(started)
	res.Attempts = attempts
	if err != nil {
		res.Error = err.Error()
	} else {
		res.Value = value
	}
	return res
}
