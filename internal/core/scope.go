package core

import "sync"

// ForTest returns the Registry scoped to t, creating one if needed.
// Multiple calls with the same TestReporter return the same Registry, and fatal
// errors raised through it go to t.Fatalf.
//
// If the TestReporter supports Cleanup (like *testing.T), the Registry is reset
// and forgotten when the test completes.
func ForTest(t TestReporter) *Registry {
	scopesMu.Lock()
	defer scopesMu.Unlock()

	if reg, ok := scopes[t]; ok {
		return reg
	}

	reg := NewRegistry(WithReporter(t))
	scopes[t] = reg

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			scopesMu.Lock()
			delete(scopes, t)
			scopesMu.Unlock()

			reg.Reset()
		})
	}

	return reg
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level scope table is intentional for test coordination
	scopes = make(map[TestReporter]*Registry)
	//nolint:gochecknoglobals // Mutex for scopes
	scopesMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}
