package provider

import (
	"sync"

	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

var (
	installMu sync.Mutex
	installed Provider
)

// Install makes p the process-wide provider. The first install wins and
// must happen before anything captures Default; installing the same value
// again is a no-op, while installing a different provider afterwards fails
// with ErrProviderInstalled.
func Install(p Provider) error {
	installMu.Lock()
	defer installMu.Unlock()

	if installed != nil {
		if installed == p {
			return nil
		}
		return types.ErrProviderInstalled
	}
	installed = p
	return nil
}

// Default returns the installed provider, lazily installing the goroutine
// provider when nothing was installed explicitly.
func Default() Provider {
	installMu.Lock()
	defer installMu.Unlock()

	if installed == nil {
		installed = NewGoroutineProvider()
	}
	return installed
}

// reset clears the installed provider. Tests only.
func reset() {
	installMu.Lock()
	defer installMu.Unlock()
	installed = nil
}
