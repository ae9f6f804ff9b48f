package core

import (
	"fmt"
	"slices"
	"sync"
)

// Registry owns every stub and invocation record, addressed by identity Key.
// All state changes happen under one mutex; stub callables run outside it.
type Registry struct {
	mu          sync.Mutex
	stubs       map[Key]map[int64]Stub
	invocations map[Key][]Invocation
	tokens      uint64

	reporter TestReporter
	onFatal  func(*FatalError)
}

// Option configures a Registry.
type Option func(*Registry)

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		stubs:       make(map[Key]map[int64]Stub),
		invocations: make(map[Key][]Invocation),
	}

	for _, opt := range opts {
		opt(reg)
	}

	return reg
}

// WithFatalHandler routes fatal errors to handler instead of ending the process.
// If handler returns, the dispatch that failed panics with the *FatalError.
func WithFatalHandler(handler func(*FatalError)) Option {
	return func(r *Registry) {
		r.onFatal = handler
	}
}

// WithReporter routes fatal errors to t.Fatalf.
func WithReporter(t TestReporter) Option {
	return func(r *Registry) {
		r.reporter = t
	}
}

// Default returns the process-wide Registry.
func Default() *Registry {
	return defaultRegistry
}

// Invocations returns a copy of the invocation log for key, oldest first. Each
// record's Args is copied too, so the log cannot be rewritten through the result.
func (r *Registry) Invocations(key Key) []Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.invocations[key]
	if len(records) == 0 {
		return []Invocation{}
	}

	out := make([]Invocation, len(records))
	for i, rec := range records {
		rec.Args = slices.Clone(rec.Args)
		out[i] = rec
	}

	return out
}

// RemoveStub removes the stub for (key, method). Removing a missing stub is a no-op.
func (r *Registry) RemoveStub(key Key, method int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.stubs[key], method)
	log.Debugf("Removed stub key=%s method=%d", key, method)
}

// Reset wipes every identity's stubs and logs and restarts token issuance.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stubs = make(map[Key]map[int64]Stub)
	r.invocations = make(map[Key][]Invocation)
	r.tokens = 0

	log.Debugf("Registry reset")
}

// ResetMock clears all stubs and the invocation log for key in one step.
func (r *Registry) ResetMock(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.stubs, key)
	delete(r.invocations, key)

	log.Debugf("Reset mock key=%s", key)
}

// SetStub installs stub for (key, method), replacing any earlier one. An empty
// key is fatal.
func (r *Registry) SetStub(key Key, method int64, stub Stub) {
	if key == "" {
		r.fatal(&FatalError{Kind: ErrNoIdentity})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	methods, ok := r.stubs[key]
	if !ok {
		methods = make(map[int64]Stub)
		r.stubs[key] = methods
	}

	methods[method] = stub

	log.Debugf("Installed stub key=%s method=%d type=%s", key, method, stub.Signature())
}

// Token issues a fresh identity key for an instance that has no address identity.
// site is a human hint, typically the constructor's file:line.
func (r *Registry) Token(site string) Key {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens++

	return Key(fmt.Sprintf("%s:%d", site, r.tokens))
}

// record appends inv to key's log and returns the stub for the method, if any.
func (r *Registry) record(key Key, inv Invocation) (Stub, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.invocations[key] = append(r.invocations[key], inv)
	stub, ok := r.stubs[key][inv.MethodID]

	return stub, ok
}

// unexported variables.
//
//nolint:gochecknoglobals // the shared registry used by adopters that don't pick one
var defaultRegistry = NewRegistry()
