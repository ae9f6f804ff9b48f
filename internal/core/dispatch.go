package core

import (
	"reflect"
	"runtime"
	"strings"
)

// Call describes one dispatch of a mocked method.
type Call struct {
	Key      Key
	MethodID int64
	Function string
	Args     []any
	// File and Line locate the mocked method's body for diagnostics.
	File string
	Line int
}

// CallSite reports the function name, file and line of the caller skip frames
// above CallSite's own caller. The function name is the last element of the
// qualified name, e.g. "Fetch" for "example.com/pkg.(*Client).Fetch".
func CallSite(skip int) (string, string, int) {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "", "", 0
	}

	name := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = fn.Name()
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			name = name[idx+1:]
		}
	}

	return name, file, line
}

// Dispatch logs call and resolves its result from the registered stub or, when
// there is none, from def. Errors from either are returned unchanged. A nil def
// yields the zero value.
func Dispatch[T any](r *Registry, call Call, def func(args []any) (T, error)) (T, error) {
	stub, ok := r.begin(call)
	if !ok {
		if def == nil {
			var zero T

			return zero, nil
		}

		return def(call.Args)
	}

	return typedFor[T](r, call, stub, true).call(call.Args)
}

// MustDispatch is Dispatch for methods that cannot fail. The default cannot fail
// by construction; if a fallible stub fails here, the failure is fatal because the
// method has no way to report it.
func MustDispatch[T any](r *Registry, call Call, def func(args []any) T) T {
	stub, ok := r.begin(call)
	if !ok {
		if def == nil {
			var zero T

			return zero
		}

		return def(call.Args)
	}

	result, err := typedFor[T](r, call, stub, false).call(call.Args)
	if err != nil {
		r.fatal(&FatalError{
			Kind:     ErrUnhandledFailure,
			Function: call.Function,
			File:     call.File,
			Line:     call.Line,
			Cause:    err,
		})
	}

	return result
}

// begin records the invocation and fetches the stub in a single critical section.
func (r *Registry) begin(call Call) (Stub, bool) {
	if call.Key == "" {
		r.fatal(&FatalError{
			Kind:     ErrNoIdentity,
			Function: call.Function,
			File:     call.File,
			Line:     call.Line,
		})
	}

	args := make([]any, len(call.Args))
	copy(args, call.Args)

	inv := Invocation{MethodID: call.MethodID, Function: call.Function, Args: args}

	stub, ok := r.record(call.Key, inv)

	log.Tracef("Dispatch key=%s %s stubbed=%v args=%v", call.Key, call.Function, ok,
		spewClosure(args))

	return stub, ok
}

// typedFor recovers the typed callable behind stub, or reports a contract
// violation when its result type differs from T.
func typedFor[T any](r *Registry, call Call, stub Stub, fallible bool) *typedStub[T] {
	typed, ok := stub.(*typedStub[T])
	if !ok {
		r.fatal(&FatalError{
			Kind:     ErrContractViolation,
			Function: call.Function,
			File:     call.File,
			Line:     call.Line,
			Stored:   stub.Signature(),
			Expected: signature(reflect.TypeFor[T](), fallible),
		})
	}

	return typed
}
