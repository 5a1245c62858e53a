package lint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the per-project configuration file searched for by
// FindConfig.
const ConfigFileName = ".cellvet.toml"

// DefaultImportPath is the package whose tokens are checked by default.
const DefaultImportPath = "github.com/kolkov/impcell/imp"

// Config controls which calls the linter treats as token acquisitions.
type Config struct {
	Lint LintConfig `toml:"lint"`
	Run  RunConfig  `toml:"run"`
}

// LintConfig is the [lint] table.
type LintConfig struct {
	// ImportPaths restricts checking to files importing one of these packages.
	ImportPaths []string `toml:"import_paths"`
	// SharedMethods and ExclusiveMethods name the zero-argument methods that
	// return a token.
	SharedMethods    []string `toml:"shared_methods"`
	ExclusiveMethods []string `toml:"exclusive_methods"`
	// ReleaseMethod is the method that returns a token.
	ReleaseMethod string `toml:"release_method"`
	// Exclude holds filepath.Match patterns matched against file base names
	// and directory names.
	Exclude []string `toml:"exclude"`
}

// RunConfig is the [run] table.
type RunConfig struct {
	Jobs int `toml:"jobs"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Lint: LintConfig{
			ImportPaths:      []string{DefaultImportPath},
			SharedMethods:    []string{"Read", "AcquireShared"},
			ExclusiveMethods: []string{"Write", "AcquireExclusive"},
			ReleaseMethod:    "Release",
		},
	}
}

// LoadConfig decodes a TOML configuration file. Keys absent from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	var file Config
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if meta.IsDefined("lint", "import_paths") {
		cfg.Lint.ImportPaths = file.Lint.ImportPaths
	}
	if meta.IsDefined("lint", "shared_methods") {
		cfg.Lint.SharedMethods = file.Lint.SharedMethods
	}
	if meta.IsDefined("lint", "exclusive_methods") {
		cfg.Lint.ExclusiveMethods = file.Lint.ExclusiveMethods
	}
	if meta.IsDefined("lint", "release_method") {
		if strings.TrimSpace(file.Lint.ReleaseMethod) == "" {
			return Config{}, fmt.Errorf("%s: [lint].release_method must not be empty", path)
		}
		cfg.Lint.ReleaseMethod = file.Lint.ReleaseMethod
	}
	if meta.IsDefined("lint", "exclude") {
		for _, pattern := range file.Lint.Exclude {
			if _, err := filepath.Match(pattern, ""); err != nil {
				return Config{}, fmt.Errorf("%s: bad [lint].exclude pattern %q: %w", path, pattern, err)
			}
		}
		cfg.Lint.Exclude = file.Lint.Exclude
	}
	if meta.IsDefined("run", "jobs") {
		if file.Run.Jobs < 0 {
			return Config{}, fmt.Errorf("%s: [run].jobs must not be negative", path)
		}
		cfg.Run.Jobs = file.Run.Jobs
	}
	return cfg, nil
}

// FindConfig walks up from dir looking for ConfigFileName. It returns the
// path and true when one is found.
func FindConfig(dir string) (string, bool, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func (c *LintConfig) excluded(name string) bool {
	for _, pattern := range c.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
