package load_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
	load "github.com/toejough/impstub/stubgen/run/1_load"
)

type osFS struct{}

func (osFS) ReadDir(name string) ([]os.DirEntry, error) { return os.ReadDir(name) }
func (osFS) ReadFile(name string) ([]byte, error)       { return os.ReadFile(name) }

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", path, err)
		}

		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

func TestDir_ParsesSourcesAndSkipsGenerated(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"store.go":                "package store\n\ntype Store interface{ Get() int }\n",
		"store_test.go":           "package store_test\n",
		"generated_StoreStub.go":  "package store\n\ntype Store interface{ Stale() }\n",
		"broken.go":               "package store\n\nfunc {\n",
		"notes.txt":               "not go",
		"sub/ignored.go":          "package sub\n",
		"generated_Other_test.go": "package store_test\n",
	})

	pkg, err := load.Dir(osFS{}, dir)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(pkg.Files).To(HaveLen(2))
	g.Expect(pkg.Name()).To(Equal("store"))
	g.Expect(pkg.Fset).NotTo(BeNil())
}

func TestDir_NoGoFiles(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"readme.md": "# nothing"})

	_, err := load.Dir(osFS{}, dir)
	g.Expect(err).To(MatchError(load.ErrNoGoFiles))
}

func TestDir_MissingDirectory(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := load.Dir(osFS{}, filepath.Join(t.TempDir(), "absent"))
	g.Expect(err).To(HaveOccurred())
}

func TestPackageName_AllTestFiles(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"x_test.go": "package x_test\n"})

	pkg, err := load.Dir(osFS{}, dir)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(pkg.Name()).To(Equal("x_test"))
	g.Expect(load.Package{}.Name()).To(BeEmpty())
}

func TestImportPath_FromEnclosingModule(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"go.mod":           "module example.com/shop\n\ngo 1.25\n",
		"inventory/inv.go": "package inventory\n",
	})

	path, err := load.ImportPath(osFS{}, filepath.Join(root, "inventory"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(path).To(Equal("example.com/shop/inventory"))

	path, err = load.ImportPath(osFS{}, root)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(path).To(Equal("example.com/shop"))
}

func TestImportPath_ModuleLineMissing(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"go.mod": "go 1.25\n"})

	_, err := load.ImportPath(osFS{}, root)
	g.Expect(err).To(MatchError(ContainSubstring("no module line")))
}

func TestResolveDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{in: "", want: "."},
		{in: ".", want: "."},
		{in: "./inventory", want: "./inventory"},
		{in: "../shared", want: "../shared"},
		{in: "/abs/pkg", want: "/abs/pkg"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			got, err := load.ResolveDir(tt.in)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(got).To(Equal(tt.want))
		})
	}
}
