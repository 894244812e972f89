// Package worker provides goroutine-backed workers with a process-style
// lifecycle.
//
// A Worker wraps one body of work and exposes the surface a process object
// would: Start, Join with timeout, Terminate, an exit code, and result
// collection after the body finishes. The body comes either from a callable
// Target or from a Runner implementation, which covers the subclass-override
// pattern. Termination is cooperative: Terminate sets an event that the body
// observes through TerminateEvent, and a request made before Start causes
// the worker to exit with ExitTerminated without dispatching at all.
//
// Failures never crash the owning goroutine. A returned error or a panic in
// the body is captured with its stack and re-surfaced by Result, while Join
// stays silent about it, so a coordinator can join a batch of workers first
// and inspect failures afterwards.
package worker
