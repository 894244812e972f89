// Package goid extracts the identity of the current goroutine.
//
// Goroutine ids are deliberately hidden by the runtime, but the shim needs a
// pid-like integer for workers and an owner token for reentrant locks. The
// portable way to obtain one is parsing the first line of runtime.Stack
// output ("goroutine 123 [running]:"). This is slow (microseconds), so callers
// cache the result per goroutine where it matters.
package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

var prefix = []byte("goroutine ")

// ID returns the id of the calling goroutine.
func ID() int64 {
	// The first line is all we need; runtime.Stack truncates to the buffer.
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	return parse(buf[:n])
}

func parse(buf []byte) int64 {
	if !bytes.HasPrefix(buf, prefix) {
		return 0
	}
	rest := buf[len(prefix):]
	end := bytes.IndexByte(rest, ' ')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseInt(string(rest[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
