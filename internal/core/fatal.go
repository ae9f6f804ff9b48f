package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Fatal error kinds. They are never returned from dispatch; they are reported
// through the Registry's fatal path, which does not return.
var (
	// ErrContractViolation means the stub registered for a method has a different
	// result type than the method's dispatch call expects.
	ErrContractViolation = errors.New("incompatible stub")
	// ErrUnhandledFailure means a fallible stub failed inside a dispatch call that
	// has no way to report errors.
	ErrUnhandledFailure = errors.New("stub failed in a dispatch that cannot fail")
	// ErrNoIdentity means a mock was used without an identity key.
	ErrNoIdentity = errors.New("mock has no identity key")
)

// ExitCode is the status the default fatal path exits with.
const ExitCode = 2

// FatalError describes an unrecoverable misuse detected while dispatching.
type FatalError struct {
	Kind     error
	Function string
	File     string
	Line     int
	Stored   string
	Expected string
	Cause    error
}

// Error renders the diagnostic.
func (e *FatalError) Error() string {
	var msg strings.Builder

	msg.WriteString("impstub: ")

	if e.File != "" {
		fmt.Fprintf(&msg, "%s:%d: ", e.File, e.Line)
	}

	switch {
	case errors.Is(e.Kind, ErrContractViolation):
		fmt.Fprintf(&msg, "%v of type '%s' registered for function '%s' requiring '%s'",
			e.Kind, e.Stored, e.Function, e.Expected)
	case e.Function != "":
		fmt.Fprintf(&msg, "%v in function '%s'", e.Kind, e.Function)
	default:
		fmt.Fprintf(&msg, "%v", e.Kind)
	}

	if e.Cause != nil {
		fmt.Fprintf(&msg, ": %v", e.Cause)
	}

	return msg.String()
}

// Unwrap exposes both the kind and the underlying cause to errors.Is and errors.As.
func (e *FatalError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Cause}
}

// TestReporter is the minimal interface impstub needs from test frameworks.
type TestReporter interface {
	Fatalf(format string, args ...any)
	Helper()
}

// unexported variables.
//
//nolint:gochecknoglobals // replaced in tests to observe the default fatal path
var (
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// fatal reports err and never returns. Handlers that do return are followed by a
// panic carrying err, so the mocked method cannot continue with a bogus result.
func (r *Registry) fatal(err *FatalError) {
	log.Criticalf("%v", err)

	switch {
	case r.onFatal != nil:
		r.onFatal(err)
	case r.reporter != nil:
		r.reporter.Helper()
		r.reporter.Fatalf("%v", err)
	default:
		_, _ = fmt.Fprintln(stderr, err)

		exit(ExitCode)
	}

	panic(err)
}
