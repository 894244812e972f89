package queues

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"reflect"
	"runtime"
	"sync"
)

// RemoteError is the last-resort reconstruction of an error that crossed the
// queue boundary: the original type could be neither decoded nor rebuilt, so
// only its name, message and the trace captured at send time survive.
type RemoteError struct {
	TypeName string
	Message  string
	Trace    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.TypeName, e.Message)
}

// envelope carries an error through a queue. Encoded holds the gob form when
// the concrete type could be serialized; the remaining fields always survive.
type envelope struct {
	TypeName string
	Message  string
	Trace    string
	Encoded  []byte
}

// gobHolder wraps the error interface so gob records the concrete type.
type gobHolder struct {
	Err error
}

var (
	ctorMu sync.RWMutex
	ctors  = make(map[string]func(message string) error)
)

// RegisterErrorType makes err's concrete type transportable by exact value:
// the type is registered with gob so a queue can fully serialize and
// reconstruct it. Types with unexported fields still degrade to the
// name-based or generic tiers.
func RegisterErrorType(err error) {
	gob.Register(err)
}

// RegisterErrorCtor registers a constructor used to rebuild an error of the
// named type from its message when binary decoding is unavailable. The name
// must match ErrorTypeName of the original value.
func RegisterErrorCtor(name string, ctor func(message string) error) {
	ctorMu.Lock()
	defer ctorMu.Unlock()
	ctors[name] = ctor
}

// ErrorTypeName returns the qualified name of err's concrete type, e.g.
// "os.PathError" or "main.probeError".
func ErrorTypeName(err error) string {
	t := reflect.TypeOf(err)
	if t == nil {
		return "error"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() != "" && t.Name() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// wrapError builds the transport envelope for an error payload. Binary
// serialization is attempted but its failure never surfaces: the reduced
// envelope still carries type name, message and trace.
func wrapError(err error) *envelope {
	env := &envelope{
		TypeName: ErrorTypeName(err),
		Message:  err.Error(),
		Trace:    captureTrace(),
	}
	var buf bytes.Buffer
	if encErr := gob.NewEncoder(&buf).Encode(&gobHolder{Err: err}); encErr == nil {
		env.Encoded = buf.Bytes()
	}
	return env
}

// unwrapError reconstructs the transported error. Three tiers: exact binary
// decode, constructor lookup by type name, generic RemoteError. It never
// fails.
func unwrapError(env *envelope) error {
	if len(env.Encoded) > 0 {
		var holder gobHolder
		if err := gob.NewDecoder(bytes.NewReader(env.Encoded)).Decode(&holder); err == nil && holder.Err != nil {
			return holder.Err
		}
	}

	ctorMu.RLock()
	ctor := ctors[env.TypeName]
	ctorMu.RUnlock()
	if ctor != nil {
		return ctor(env.Message)
	}

	return &RemoteError{
		TypeName: env.TypeName,
		Message:  env.Message,
		Trace:    env.Trace,
	}
}

func captureTrace() string {
	var buf [4096]byte
	n := runtime.Stack(buf[:], false)
	return string(buf[:n])
}
