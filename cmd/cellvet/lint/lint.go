// Package lint finds misuse of cell tokens in Go source.
//
// The checks are syntactic and run per function body:
//
//   - discarded-token: h.Read() or h.Write() used as a statement, or assigned
//     to the blank identifier. The cell stays borrowed forever and the next
//     conflicting access panics.
//   - chained-token: h.Write().Set(v). The token is used once and never
//     released.
//   - leaked-token: r := h.Read() with no r.Release() anywhere in the body
//     and no hand-off of r to other code.
//
// Only files importing the cell package (or a configured replacement) are
// checked, and only in modules that are, or require, the cell module.
package lint

import (
	"cmp"
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kolkov/impcell/internal/logging"
)

// Linter checks Go files against a Config.
type Linter struct {
	cfg Config
	log *logging.Logger
}

// New returns a Linter. A nil logger discards log output.
func New(cfg Config, log *logging.Logger) *Linter {
	if log == nil {
		log = logging.NoopLogger()
	}
	return &Linter{cfg: cfg, log: log}
}

// Result is the outcome of CheckPaths.
type Result struct {
	Files    int        // Files checked
	Findings []*Finding // Sorted by file, line and column
	// Skipped lists module roots whose files were not checked because the
	// module neither is nor requires the cell module.
	Skipped []string
}

// CheckSource checks one file's source. filename is used for positions only.
func (l *Linter) CheckSource(filename string, src []byte) ([]*Finding, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	if !importsCells(file, l.cfg.Lint.ImportPaths) {
		return nil, nil
	}
	v := &tokenVisitor{fset: fset, cfg: &l.cfg.Lint}
	for _, decl := range file.Decls {
		ast.Walk(v, decl)
	}
	return v.findings, nil
}

// CheckFile reads and checks path.
func (l *Linter) CheckFile(path string) ([]*Finding, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.CheckSource(path, src)
}

// CheckPaths checks every .go file named by paths. Directories are walked
// recursively, skipping vendor, testdata, hidden directories and excluded
// names. A trailing "/..." is accepted and ignored.
//
// Files are checked concurrently, at most jobs at a time; jobs <= 0 uses
// the configured [run].jobs, then GOMAXPROCS.
func (l *Linter) CheckPaths(ctx context.Context, paths []string, jobs int) (*Result, error) {
	files, err := l.collect(paths)
	if err != nil {
		return nil, err
	}

	files, skipped, err := l.filterModules(files)
	if err != nil {
		return nil, err
	}

	if jobs <= 0 {
		jobs = l.cfg.Run.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	perFile := make([][]*Finding, len(files))
	if len(files) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(jobs, len(files)))
		for i, path := range files {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				found, err := l.CheckFile(path)
				if err != nil {
					return err
				}
				perFile[i] = found
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	res := &Result{Files: len(files), Skipped: skipped}
	for _, found := range perFile {
		res.Findings = append(res.Findings, found...)
	}
	slices.SortStableFunc(res.Findings, func(a, b *Finding) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
		)
	})
	return res, nil
}

func (l *Linter) collect(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, p := range paths {
		p = strings.TrimSuffix(p, "/...")
		if p == "" {
			p = "."
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(filepath.Clean(p))
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if d.IsDir() {
				if path != p && (name == "vendor" || name == "testdata" ||
					strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
					l.cfg.Lint.excluded(name)) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(name, ".go") && !l.cfg.Lint.excluded(name) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// filterModules drops files whose module cannot import the cell package.
func (l *Linter) filterModules(files []string) ([]string, []string, error) {
	modules := make(map[string]*Module)
	roots := make(map[string]string)
	moduleOf := func(dir string) (*Module, error) {
		root, ok := roots[dir]
		if !ok {
			var err error
			if root, err = FindModuleRoot(dir); err != nil {
				return nil, err
			}
			roots[dir] = root
		}
		if m, ok := modules[root]; ok {
			return m, nil
		}
		m, err := LoadModule(root)
		if err != nil {
			return nil, err
		}
		modules[root] = m
		if !m.UsesCells {
			l.log.Info("skipping module", "module", m.Path, "root", root)
		}
		return m, nil
	}

	var (
		kept    []string
		skipped []string
	)
	for _, f := range files {
		m, err := moduleOf(filepath.Dir(f))
		if err != nil {
			return nil, nil, err
		}
		if m.UsesCells {
			kept = append(kept, f)
			continue
		}
		if !slices.Contains(skipped, m.Root) {
			skipped = append(skipped, m.Root)
		}
	}
	return kept, skipped, nil
}
