// Package load resolves a package directory and parses its sources into DST.
package load

import (
	"errors"
	"fmt"
	"go/build"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"golang.org/x/mod/modfile"
)

// Errors returned while loading a package.
var (
	ErrNoGoFiles  = errors.New("no parsable .go files")
	ErrNoModule   = errors.New("no go.mod found")
	errModuleLine = errors.New("go.mod has no module line")
)

// Package is a parsed source directory.
type Package struct {
	Dir   string
	Files []*dst.File
	Fset  *token.FileSet
}

// FileSystem is the read side of the generator's file access.
type FileSystem interface {
	ReadDir(name string) ([]os.DirEntry, error)
	ReadFile(name string) ([]byte, error)
}

// Name returns the package clause shared by the non-test files, falling back to
// the first file when every file is a test file.
func (p Package) Name() string {
	for _, file := range p.Files {
		if !strings.HasSuffix(file.Name.Name, "_test") {
			return file.Name.Name
		}
	}

	if len(p.Files) == 0 {
		return ""
	}

	return p.Files[0].Name.Name
}

// Dir parses every .go file in dir. Generated files are skipped so a stale
// output never shadows the interface it was generated from. Files that do not
// parse are skipped as well.
func Dir(fsys FileSystem, dir string) (Package, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return Package{}, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)
	files := make([]*dst.File, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasPrefix(name, "generated_") {
			continue
		}

		path := filepath.Join(dir, name)

		src, err := fsys.ReadFile(path)
		if err != nil {
			return Package{}, fmt.Errorf("failed to read %s: %w", path, err)
		}

		file, err := dec.ParseFile(path, src, 0)
		if err != nil {
			continue
		}

		files = append(files, file)
	}

	if len(files) == 0 {
		return Package{}, fmt.Errorf("%w in %s", ErrNoGoFiles, dir)
	}

	return Package{Dir: dir, Files: files, Fset: fset}, nil
}

// ResolveDir turns a --pkg value into a directory. Relative and absolute paths
// are used as-is; anything else is treated as an import path.
func ResolveDir(pkg string) (string, error) {
	if pkg == "" {
		return ".", nil
	}

	if pkg == "." || pkg == ".." || strings.HasPrefix(pkg, "./") || strings.HasPrefix(pkg, "../") || filepath.IsAbs(pkg) {
		return pkg, nil
	}

	srcDir, _ := os.Getwd()

	found, err := build.Import(pkg, srcDir, build.FindOnly)
	if err != nil {
		return "", fmt.Errorf("failed to find package %q: %w", pkg, err)
	}

	return found.Dir, nil
}

// ImportPath derives the import path of dir from the nearest enclosing go.mod.
func ImportPath(fsys FileSystem, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	for root := abs; ; root = filepath.Dir(root) {
		data, readErr := fsys.ReadFile(filepath.Join(root, "go.mod"))
		if readErr == nil {
			module := modfile.ModulePath(data)
			if module == "" {
				return "", fmt.Errorf("%s: %w", root, errModuleLine)
			}

			rel, err := filepath.Rel(root, abs)
			if err != nil {
				return "", fmt.Errorf("failed to relate %s to %s: %w", abs, root, err)
			}

			if rel == "." {
				return module, nil
			}

			return module + "/" + filepath.ToSlash(rel), nil
		}

		if filepath.Dir(root) == root {
			return "", fmt.Errorf("%w above %s", ErrNoModule, abs)
		}
	}
}
