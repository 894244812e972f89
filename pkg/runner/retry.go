package runner

import (
	"time"

	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

// retryPolicy controls task re-execution: attempts is the total number of
// tries, delay the fixed pause between them.
type retryPolicy struct {
	attempts int
	delay    time.Duration
}

func policyFor(task Task) retryPolicy {
	attempts := task.Retries + 1
	if attempts < 1 {
		attempts = 1
	}
	return retryPolicy{attempts: attempts, delay: task.Delay}
}

// runWithRetry executes fn up to policy.attempts times, pausing between
// attempts. Returns the last result, the number of attempts used, and the
// final error.
func runWithRetry(clock types.Clock, policy retryPolicy, fn func() (interface{}, error)) (interface{}, int, error) {
	var result interface{}
	var err error

	for attempt := 1; attempt <= policy.attempts; attempt++ {
		result, err = fn()
		if err == nil {
			return result, attempt, nil
		}
		if attempt < policy.attempts && policy.delay > 0 {
			clock.Sleep(policy.delay)
		}
	}
	return nil, policy.attempts, err
}
