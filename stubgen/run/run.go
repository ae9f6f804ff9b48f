// Package run implements the stubgen tool in a testable way.
package run

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alexflint/go-arg"
	load "github.com/toejough/impstub/stubgen/run/1_load"
	detect "github.com/toejough/impstub/stubgen/run/2_detect"
	generate "github.com/toejough/impstub/stubgen/run/3_generate"
	output "github.com/toejough/impstub/stubgen/run/4_output"
)

// ErrUsage means the command line named neither an interface nor a config file,
// or named both.
var ErrUsage = errors.New("give exactly one of <interface> or --config")

// FileSystem is everything the generator needs from the disk.
type FileSystem interface {
	ReadDir(name string) ([]os.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Interface string `arg:"positional"            help:"interface to stub (e.g. Store)"`
	Name      string `arg:"--name"                help:"name of the generated type (defaults to <Interface>Stub)"`
	Pkg       string `arg:"--pkg"    default:"."  help:"directory or import path of the interface's package"`
	Config    string `arg:"--config"              help:"YAML file listing several targets"`
	Check     bool   `arg:"--check"               help:"report stale generated files instead of writing them"`
}

// Run executes stubgen. args is the full argv; getEnv supplies GOPACKAGE and
// GOFILE when run from go:generate. Progress and diffs go to out.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, out io.Writer) error {
	parsed, err := parseArgs(args, out)
	if errors.Is(err, arg.ErrHelp) {
		return nil
	}

	if err != nil {
		return err
	}

	if (parsed.Interface == "") == (parsed.Config == "") {
		return ErrUsage
	}

	if parsed.Config != "" {
		return runConfig(parsed, fileSys, out)
	}

	job := job{
		target:  Target{Interface: parsed.Interface, Name: parsed.Name, Pkg: parsed.Pkg},
		outDir:  ".",
		outPkg:  getEnv("GOPACKAGE"),
		goFile:  getEnv("GOFILE"),
		check:   parsed.Check,
		fileSys: fileSys,
		out:     out,
	}

	return job.run()
}

// job is one interface to stub, with everything needed to place the result.
type job struct {
	target  Target
	outDir  string
	outPkg  string
	goFile  string
	check   bool
	fileSys FileSystem
	out     io.Writer
}

func (j job) run() error {
	name := j.target.Name
	if name == "" {
		name = j.target.Interface + "Stub"
	}

	dir, err := load.ResolveDir(j.target.Pkg)
	if err != nil {
		return err
	}

	pkg, err := load.Dir(j.fileSys, dir)
	if err != nil {
		return err
	}

	iface, err := detect.Find(pkg.Files, j.target.Interface)
	if err != nil {
		return fmt.Errorf("%s: %w", dir, err)
	}

	opts := generate.Options{Package: j.outPkg, Name: name}
	if opts.Package == "" {
		opts.Package = pkg.Name()
	}

	if opts.Package != pkg.Name() {
		opts.SourceName = pkg.Name()

		opts.SourcePath, err = load.ImportPath(j.fileSys, dir)
		if err != nil {
			return err
		}
	}

	code, err := generate.Generate(iface, opts)
	if err != nil {
		return err
	}

	filename := output.FileName(name, opts.Package, j.goFile)
	path := filepath.Join(j.outDir, filename)
	code = output.Reorder(code, filename, j.out)

	if j.check {
		return output.Check(path, code, j.fileSys, j.out)
	}

	return output.Write(path, code, j.fileSys, j.out)
}

// parseArgs parses command-line arguments into cliArgs. --help prints usage on out
// and returns arg.ErrHelp.
func parseArgs(args []string, out io.Writer) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "stubgen"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if errors.Is(err, arg.ErrHelp) {
		parser.WriteHelp(out)

		return cliArgs{}, err
	}

	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}
