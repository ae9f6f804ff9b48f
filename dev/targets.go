//go:build targ

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
	"github.com/toejough/targ"
	"github.com/toejough/targ/file"
	"github.com/toejough/targ/sh"
)

// Build builds the local stubgen binary.
func Build() error {
	fmt.Println("Building stubgen...")

	if err := os.MkdirAll("bin", 0o755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	return sh.Run("go", "build", "-o", "bin/stubgen", "./stubgen")
}

// Check runs all checks & fixes on the code, in order of correctness.
func Check() error {
	fmt.Println("Checking...")

	return targ.Deps(
		Tidy,          // clean up the module dependencies
		Generate,      // committed stubs must match the generator
		CheckCoverage, // does our code work?
		ReorderDecls,  // linter will yell about declaration order if not correct
		Lint,
	)
}

// CheckCoverage checks that every function meets the minimum coverage.
func CheckCoverage() error {
	fmt.Println("Checking coverage...")

	if err := targ.Deps(Test); err != nil {
		return err
	}

	report, err := output("go", "tool", "cover", "-func=coverage.out")
	if err != nil {
		return fmt.Errorf("failed to read coverage report: %w", err)
	}

	const threshold = 80.0

	failing := lowCoverage(report, threshold)
	for _, line := range failing {
		fmt.Println("  " + line)
	}

	if len(failing) > 0 {
		return fmt.Errorf("%w: %d function(s) below %.0f%%", errCoverage, len(failing), threshold)
	}

	return nil
}

// Clean removes build and coverage artifacts.
func Clean() {
	fmt.Println("Cleaning...")

	_ = os.RemoveAll("bin")
	_ = os.Remove("coverage.out")
}

// Generate regenerates the committed stubs.
func Generate() error {
	fmt.Println("Generating...")
	return sh.Run("go", "generate", "./...")
}

// GenerateCheck reports stubs that no longer match their interface, without
// writing anything.
func GenerateCheck() error {
	fmt.Println("Checking generated stubs...")

	if err := targ.Deps(Build); err != nil {
		return err
	}

	return sh.Run("bin/stubgen", "--config", "dev/stubgen.yaml", "--check")
}

// Lint lints the codebase.
func Lint() error {
	fmt.Println("Linting...")
	return sh.Run("golangci-lint", "run", "-c", "dev/golangci.toml")
}

// Mutate runs the mutation tests.
func Mutate() error {
	fmt.Println("Running mutation tests...")

	if err := targ.Deps(TestForFail); err != nil {
		return err
	}

	return sh.Run("go", "test", "-timeout=6000s", "-tags=mutation", "-ooze.v", "./dev/...", "-run=TestMutation")
}

// ReorderDecls reorders declarations in Go files per conventions.
func ReorderDecls() error {
	fmt.Println("Reordering declarations...")

	files, err := sourceFiles(".")
	if err != nil {
		return err
	}

	reordered := 0

	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		updated, err := reorder.Source(string(content))
		if err != nil {
			fmt.Printf("Warning: failed to reorder %s: %v\n", path, err)

			continue
		}

		if updated == string(content) {
			continue
		}

		err = os.WriteFile(path, []byte(updated), 0o600)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		fmt.Printf("  Reordered: %s\n", path)
		reordered++
	}

	fmt.Printf("Reordered %d file(s).\n", reordered)

	return nil
}

// ReorderDeclsCheck lists the files that need reordering without modifying them.
func ReorderDeclsCheck() error {
	fmt.Println("Checking declaration order...")

	files, err := sourceFiles(".")
	if err != nil {
		return err
	}

	stale := 0

	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		order, err := reorder.AnalyzeSectionOrder(string(content))
		if err != nil {
			fmt.Printf("Warning: failed to analyze %s: %v\n", path, err)

			continue
		}

		updated, err := reorder.Source(string(content))
		if err != nil || updated == string(content) {
			continue
		}

		stale++

		fmt.Printf("\n%s:\n", path)

		for i, section := range order.Sections {
			note := ""
			if section.Expected != i+1 {
				note = " <- should be #" + strconv.Itoa(section.Expected)
			}

			fmt.Printf("    %d. %-24s%s\n", i+1, section.Name, note)
		}

		fmt.Printf("\n%s\n", textdiff.Unified(path+" (current)", path+" (reordered)", string(content), updated))
	}

	if stale > 0 {
		return fmt.Errorf("%w: %d file(s)", errOrder, stale)
	}

	fmt.Printf("All %d files are correctly ordered.\n", len(files))

	return nil
}

// Test runs the unit tests with the race detector and writes coverage.out.
func Test() error {
	fmt.Println("Running unit tests...")

	return sh.Run(
		"go", "test",
		"-timeout=2m",
		"-race",
		"-count=1",
		"-coverprofile=coverage.out",
		"-coverpkg=./,./internal/...,./match/...,./stubgen/run/...",
		"./...",
	)
}

// TestForFail runs the unit tests purely to find out whether any fail.
func TestForFail() error {
	fmt.Println("Running unit tests for overall pass/fail...")
	return sh.Run("go", "test", "-timeout=30s", "-failfast", "./...")
}

// Tidy tidies up go.mod.
func Tidy() error {
	fmt.Println("Tidying go.mod...")
	return sh.Run("go", "mod", "tidy")
}

// Watch re-runs Check whenever files change.
func Watch(ctx context.Context) error {
	fmt.Println("Watching...")

	return file.Watch(ctx, []string{"**/*.go", "**/*.yaml"}, file.WatchOptions{}, func(changes file.ChangeSet) error {
		if !hasRelevantChanges(changes) {
			return nil
		}

		fmt.Println("Change detected...")

		targ.ResetDeps()

		if err := Check(); err != nil {
			fmt.Println("continuing to watch after check failure (see errors above)")
		} else {
			fmt.Println("continuing to watch after all checks passed!")
		}

		return nil
	})
}

var (
	errCoverage = errors.New("coverage too low")
	errOrder    = errors.New("declarations out of order")
)

// hasRelevantChanges ignores the files Check itself writes.
func hasRelevantChanges(changes file.ChangeSet) bool {
	all := append(append(changes.Added, changes.Removed...), changes.Modified...)

	for _, path := range all {
		if strings.Contains(path, "generated_") || strings.HasSuffix(path, "coverage.out") {
			continue
		}

		return true
	}

	return false
}

// lowCoverage returns the lines of a "go tool cover -func" report whose
// percentage is under threshold. main functions and the total are ignored.
func lowCoverage(report string, threshold float64) []string {
	var low []string

	for line := range strings.Lines(report) {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] == "total:" || fields[1] == "main" {
			continue
		}

		pct, err := strconv.ParseFloat(strings.TrimSuffix(fields[len(fields)-1], "%"), 64)
		if err != nil || pct >= threshold {
			continue
		}

		low = append(low, strings.TrimSpace(line))
	}

	return low
}

// output runs a command and captures stdout only (stderr goes to os.Stderr).
func output(command string, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := exec.Command(command, args...)
	cmd.Stdout = buf
	cmd.Stderr = os.Stderr
	err := cmd.Run()

	return strings.TrimSuffix(buf.String(), "\n"), err
}

// sourceFiles lists the hand-written Go files under dir.
func sourceFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := entry.Name()

		if entry.IsDir() {
			if path != dir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(name) == ".go" && !strings.HasPrefix(name, "generated_") {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find Go files: %w", err)
	}

	return files, nil
}
