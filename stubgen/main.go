// stubgen generates impstub test doubles for Go interfaces.
// Install it with `go install github.com/toejough/impstub/stubgen@latest` and add
// a `//go:generate stubgen <Interface>` comment next to the interface, or in a
// test file. The stub is named <Interface>Stub unless `--name` says otherwise, and
// is written to generated_<Name>.go (generated_<Name>_test.go for test packages).
// `--config stubgen.yaml` generates several stubs in one run; `--check` reports
// stale files without touching them.
package main

import (
	"fmt"
	"os"

	"github.com/toejough/impstub/stubgen/run"
)

func main() {
	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements run.FileSystem using os package.
type realFileSystem struct{}

// ReadDir returns the entries of the named directory.
func (fs *realFileSystem) ReadDir(name string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", name, err)
	}

	return entries, nil
}

// ReadFile reads the file named by name and returns the contents.
func (fs *realFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return data, nil
}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}
