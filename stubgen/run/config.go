package run

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoTargets means a config file listed nothing to generate.
var ErrNoTargets = errors.New("config lists no targets")

// Config is the batch file read by --config:
//
//	targets:
//	  - interface: Store
//	    name: StoreStub
//	    pkg: ./shop
//	    out: ./shop/shoptest
//	    package: shoptest
type Config struct {
	Targets []Target `yaml:"targets"`
}

// Target is one interface to stub. Pkg and Out are relative to the config file.
// Out defaults to Pkg. Package defaults to the interface's own package; set it
// when Out holds a different one.
type Target struct {
	Interface string `yaml:"interface"`
	Name      string `yaml:"name"`
	Pkg       string `yaml:"pkg"`
	Out       string `yaml:"out"`
	Package   string `yaml:"package"`
}

// ParseConfig decodes a batch file. Unknown keys are rejected so typos surface.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.Targets) == 0 {
		return Config{}, ErrNoTargets
	}

	for i, target := range cfg.Targets {
		if target.Interface == "" {
			return Config{}, fmt.Errorf("target %d: %w", i, ErrUsage)
		}
	}

	return cfg, nil
}

// runConfig generates every target, continuing past failures so one --check
// run reports every stale file.
func runConfig(parsed cliArgs, fileSys FileSystem, out io.Writer) error {
	data, err := fileSys.ReadFile(parsed.Config)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", parsed.Config, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return fmt.Errorf("%s: %w", parsed.Config, err)
	}

	base := filepath.Dir(parsed.Config)

	var errs []error

	for _, target := range cfg.Targets {
		target.Pkg = relativeTo(base, target.Pkg)

		outDir := target.Pkg
		if target.Out != "" {
			outDir = relativeTo(base, target.Out)
		}

		job := job{
			target:  target,
			outDir:  outDir,
			outPkg:  target.Package,
			check:   parsed.Check,
			fileSys: fileSys,
			out:     out,
		}

		err := job.run()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", target.Interface, err))
		}
	}

	return errors.Join(errs...)
}

// relativeTo resolves a config path against the config file's directory, keeping
// the leading ./ that marks it as a directory rather than an import path.
func relativeTo(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	joined := filepath.Join(base, path)
	if joined == "." || filepath.IsAbs(joined) || strings.HasPrefix(joined, "..") {
		return joined
	}

	return "./" + filepath.ToSlash(joined)
}
