package lint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ModulePath is the module providing the cell package.
const ModulePath = "github.com/kolkov/impcell"

// Module describes the Go module enclosing a checked file.
type Module struct {
	Path string // Module path from the module directive
	Root string // Directory containing go.mod
	// UsesCells reports whether the module is the cell module itself or
	// requires it. Files in other modules cannot import the cell package.
	UsesCells bool
}

// FindModuleRoot walks up from dir to the nearest directory holding a go.mod.
func FindModuleRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod found above %s", dir)
		}
		dir = parent
	}
}

// LoadModule parses root/go.mod.
func LoadModule(root string) (*Module, error) {
	goModPath := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return nil, err
	}
	return ParseModule(goModPath, data)
}

// ParseModule parses go.mod content read from path.
func ParseModule(path string, data []byte) (*Module, error) {
	f, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Module == nil {
		return nil, fmt.Errorf("%s: missing module directive", path)
	}

	m := &Module{
		Path: f.Module.Mod.Path,
		Root: filepath.Dir(path),
	}
	m.UsesCells = m.Path == ModulePath
	for _, req := range f.Require {
		if req.Mod.Path == ModulePath {
			m.UsesCells = true
			break
		}
	}
	return m, nil
}
