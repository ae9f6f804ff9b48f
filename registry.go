package impstub

import "github.com/toejough/impstub/internal/core"

// RegistryFor returns the Registry for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Registry, so every
// mock built in one test shares stubs, logs and fatal reporting through t.
// The Registry is cleared when the test completes.
func RegistryFor(t TestReporter) *Registry {
	return core.ForTest(t)
}
