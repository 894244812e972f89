package runner

import (
	"fmt"
	"sync"
	"time"

	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

// ActionFunc executes one task action against a host.
type ActionFunc func(host Host, args map[string]interface{}) (interface{}, error)

var (
	actionMu sync.RWMutex
	actions  = map[string]ActionFunc{}
)

// RegisterAction makes an action available to playbooks under name,
// replacing any previous registration.
func RegisterAction(name string, fn ActionFunc) {
	actionMu.Lock()
	defer actionMu.Unlock()
	actions[name] = fn
}

func lookupAction(name string) (ActionFunc, bool) {
	actionMu.RLock()
	defer actionMu.RUnlock()
	fn, ok := actions[name]
	return fn, ok
}

// Builtin actions. "ping" answers pong, "debug" echoes its msg argument,
// and "wait" sleeps for the configured duration.
func init() {
	RegisterAction("ping", func(host Host, args map[string]interface{}) (interface{}, error) {
		return "pong", nil
	})

	RegisterAction("debug", func(host Host, args map[string]interface{}) (interface{}, error) {
		msg, ok := args["msg"]
		if !ok {
			return nil, fmt.Errorf("debug: missing msg argument")
		}
		return msg, nil
	})

	RegisterAction("wait", func(host Host, args map[string]interface{}) (interface{}, error) {
		raw, ok := args["duration"]
		if !ok {
			return nil, fmt.Errorf("wait: missing duration argument")
		}
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("wait: duration must be a string, got %T", raw)
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("wait: %w", err)
		}
		clock, _ := args[clockArg].(types.Clock)
		if clock == nil {
			clock = types.NewRealClock()
		}
		clock.Sleep(d)
		return nil, nil
	})
}

// clockArg is the reserved argument under which the executor injects its
// clock, so time-based actions stay testable.
const clockArg = "_clock"
