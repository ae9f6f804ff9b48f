// Package impstub is a stub-and-record engine for hand-written or generated test
// doubles. A mock declares its mockable methods as an integer enum, embeds a
// Mock, and routes each method body through Invoke (or a sibling). Every call is
// logged; a stub installed for the method replaces the method's default result.
//
//	type Methods int
//
//	const (
//	    Fetch Methods = iota
//	)
//
//	type FakeClient struct {
//	    impstub.Mock[Methods]
//	}
//
//	func (c *FakeClient) Fetch(id string) (string, error) {
//	    return impstub.InvokeE[string](c, Fetch, "Fetch", []any{id}, nil)
//	}
//
// Stubs must match the result type AND the failure capability of the method they
// replace. A stub whose result type differs from the dispatch call's is a fatal
// contract violation. A stub built with StubFallible or StubError that fails inside
// Invoke or InvokeVoid (which cannot return errors) is fatal too: it is reported
// at the first failing call, not when the stub is installed.
//
// This is the public API entry point. Implementation lives in internal/core.
package impstub

import (
	"fmt"

	"github.com/toejough/impstub/internal/core"
)

// Key identifies one live mock instance.
type Key = core.Key

// Registry owns stubs and invocation logs for any number of mocks.
type Registry = core.Registry

// Option configures a Registry.
type Option = core.Option

// FatalError describes an unrecoverable stub misuse.
type FatalError = core.FatalError

// TestReporter is the minimal interface impstub needs from test frameworks.
type TestReporter = core.TestReporter

// Matcher defines the interface for flexible argument matching.
type Matcher = core.Matcher

// Errors re-exported from internal/core.
var (
	ErrArgsMismatch      = core.ErrArgsMismatch
	ErrContractViolation = core.ErrContractViolation
	ErrNilInstance       = core.ErrNilInstance
	ErrNoIdentity        = core.ErrNoIdentity
	ErrNotReference      = core.ErrNotReference
	ErrUnhandledFailure  = core.ErrUnhandledFailure
)

// AddressKey derives a Key from the address of a reference-typed instance.
func AddressKey(instance any) (Key, error) {
	return core.AddressKey(instance)
}

// Default returns the process-wide Registry.
func Default() *Registry {
	return core.Default()
}

// NewRegistry creates an isolated Registry.
func NewRegistry(opts ...Option) *Registry {
	return core.NewRegistry(opts...)
}

// Reset clears every stub and invocation log in the default Registry and restarts
// its token counter. Use it to isolate independent test runs from each other.
func Reset() {
	core.Default().Reset()
}

// WithFatalHandler routes fatal errors to handler instead of ending the process.
func WithFatalHandler(handler func(*FatalError)) Option {
	return core.WithFatalHandler(handler)
}

// WithReporter routes fatal errors to t.Fatalf.
func WithReporter(t TestReporter) Option {
	return core.WithReporter(t)
}

// Method is the constraint for method identifier types.
type Method interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Mock binds an identity key to a Registry. Embed it in a test double; the
// methods it provides are promoted onto the double. The zero Mock has no
// identity, and using it is fatal.
type Mock[M Method] struct {
	registry *core.Registry
	key      core.Key
}

// MockAt returns a Mock whose identity is the address of instance, in the default
// Registry. instance must be a non-nil pointer to a non-zero-size value, a map or
// a chan; anything else, funcs included, panics.
func MockAt[M Method](instance any) Mock[M] {
	return MockAtIn[M](core.Default(), instance)
}

// MockAtIn is MockAt for a specific Registry.
func MockAtIn[M Method](reg *Registry, instance any) Mock[M] {
	key, err := core.AddressKey(instance)
	if err != nil {
		panic(fmt.Sprintf("impstub: MockAt: %v", err))
	}

	return Mock[M]{registry: reg, key: key}
}

// NewMock returns a Mock with a freshly issued identity token in the default
// Registry. Copies of the returned value share the identity, which is what a
// value-typed double needs.
func NewMock[M Method]() Mock[M] {
	return newMock[M](core.Default())
}

// NewMockIn is NewMock for a specific Registry.
func NewMockIn[M Method](reg *Registry) Mock[M] {
	return newMock[M](reg)
}

// CallCount returns how many times method has been dispatched since the last reset.
func (m Mock[M]) CallCount(method M) int {
	return len(m.InvocationsOf(method))
}

// Invocations returns every recorded call on this mock, oldest first.
func (m Mock[M]) Invocations() []Invocation[M] {
	records := m.reg().Invocations(m.key)

	out := make([]Invocation[M], len(records))
	for i, rec := range records {
		out[i] = Invocation[M]{Method: M(rec.MethodID), Function: rec.Function, Args: rec.Args}
	}

	return out
}

// InvocationsOf returns the recorded calls of one method, oldest first.
func (m Mock[M]) InvocationsOf(method M) []Invocation[M] {
	all := m.Invocations()

	out := make([]Invocation[M], 0, len(all))

	for _, inv := range all {
		if inv.Method == method {
			out = append(out, inv)
		}
	}

	return out
}

// MockKey returns the identity key.
func (m Mock[M]) MockKey() Key {
	return m.key
}

// Registry returns the Registry this mock lives in.
func (m Mock[M]) Registry() *Registry {
	return m.reg()
}

// ResetMock removes every stub and the invocation log of this mock.
func (m Mock[M]) ResetMock() {
	m.reg().ResetMock(m.key)
}

// Unstub restores the default behavior of method. Other methods keep their stubs.
func (m Mock[M]) Unstub(method M) {
	m.reg().RemoveStub(m.key, int64(method))
}

func (m Mock[M]) binding() Mock[M] {
	return m
}

func (m Mock[M]) reg() *core.Registry {
	if m.registry == nil {
		return core.Default()
	}

	return m.registry
}

// Mocker is satisfied by any type that embeds Mock[M].
type Mocker[M Method] interface {
	binding() Mock[M]
}

// Invocation is one recorded call.
type Invocation[M Method] struct {
	Method   M
	Function string
	Args     []any
}

// ArgsMatch compares the recorded arguments with expected, position by position.
// Expected values may be Matchers (including gomega matchers).
func (i Invocation[M]) ArgsMatch(expected ...any) error {
	return i.record().ArgsMatch(expected...)
}

// IsNil reports whether argument idx carries no value.
func (i Invocation[M]) IsNil(idx int) bool {
	return i.record().IsNil(idx)
}

// String renders the invocation as Function(arg, ...).
func (i Invocation[M]) String() string {
	return i.record().String()
}

func (i Invocation[M]) record() core.Invocation {
	return core.Invocation{MethodID: int64(i.Method), Function: i.Function, Args: i.Args}
}

func newMock[M Method](reg *Registry) Mock[M] {
	_, file, line := core.CallSite(2)

	return Mock[M]{registry: reg, key: reg.Token(fmt.Sprintf("%s:%d", file, line))}
}
