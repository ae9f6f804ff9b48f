// Package output names, orders, writes and checks generated stub files.
package output

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
)

// ErrStale means the file on disk differs from what would be generated.
var ErrStale = errors.New("generated file is out of date")

// Writer interface for writing generated code.
type Writer interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// Reader interface for reading the current generated file.
type Reader interface {
	ReadFile(name string) ([]byte, error)
}

// FileName returns generated_<stubName>.go, or generated_<stubName>_test.go when
// the stub is destined for a test: either an external test package or a
// go:generate directive placed in a _test.go file.
func FileName(stubName, pkgName, goFile string) string {
	base := strings.TrimSuffix(stubName, ".go")

	isTest := strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(goFile, "_test.go")
	if isTest && !strings.HasSuffix(base, "_test") {
		base += "_test"
	}

	return "generated_" + base + ".go"
}

// Reorder sorts declarations into the project's conventional order. A failure is
// reported on out and the code is returned unchanged.
func Reorder(code, filename string, out io.Writer) string {
	reordered, err := reorder.Source(code)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		return code
	}

	return reordered
}

// Write stores code at path.
func Write(path, code string, fileWriter Writer, out io.Writer) error {
	const generatedFilePermissions = 0o600

	err := fileWriter.WriteFile(path, []byte(code), generatedFilePermissions)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", path)

	return nil
}

// Check compares code with the file at path without writing anything. A stale or
// missing file prints a unified diff on out and returns ErrStale.
func Check(path, code string, fileReader Reader, out io.Writer) error {
	current, err := fileReader.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	if string(current) == code {
		_, _ = fmt.Fprintf(out, "%s is up to date.\n", path)

		return nil
	}

	diff := textdiff.Unified(path+" (current)", path+" (generated)", string(current), code)
	_, _ = fmt.Fprintf(out, "%s\n", diff)

	return fmt.Errorf("%w: %s", ErrStale, path)
}
