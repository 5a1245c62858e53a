// Package report formats borrow violations.
//
// A Violation describes a failed operation on a cell: what was attempted, the
// borrow state observed at that moment, where the attempt came from and, when
// origin tracking is enabled, where every outstanding token was acquired.
//
// Output format:
//
//	==================
//	BORROW VIOLATION: already mutably borrowed
//	Shared borrow of cell "counter" (0x000000c000012345) in state Exclusive:
//	  main.reader()
//	      /path/to/main.go:15
//
//	Outstanding exclusive borrow #3 acquired at:
//	  main.writer()
//	      /path/to/main.go:9
//	==================
package report

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/kolkov/impcell/internal/borrow"
)

const rule = "==================\n"

// Operations that can fail on a cell.
const (
	OpSharedBorrow    = "shared borrow"
	OpExclusiveBorrow = "exclusive borrow"
	OpRelease         = "release"
	OpAccess          = "access"
	OpDrop            = "drop"
	OpHandle          = "handle use"
)

// Site is one outstanding token at the time of the violation.
type Site struct {
	// ID is the per-cell token sequence number.
	ID uint64

	// Access is the kind of token.
	Access borrow.Access

	// Stack is the formatted acquisition stack.
	Stack string
}

// Violation represents one failed cell operation.
type Violation struct {
	// Cause is the sentinel error describing the failure.
	Cause error

	// Op is the operation that failed (one of the Op constants).
	Op string

	// Cell is the cell's name, empty if unnamed.
	Cell string

	// Addr is the address of the cell allocation.
	Addr uintptr

	// State is the borrow state observed when the operation failed.
	State borrow.State

	// Stack is the formatted stack of the failing operation.
	Stack string

	// Outstanding lists tokens alive at the time of the failure.
	// Empty when origin tracking is disabled.
	Outstanding []Site

	// Tracked reports whether the cell records acquisition sites.
	Tracked bool
}

// Summary returns the one-line description of the violation.
//
// Format: `shared borrow of cell "counter": already mutably borrowed`.
func (v *Violation) Summary() string {
	return fmt.Sprintf("%s of %s: %v", v.Op, v.cellLabel(), v.Cause)
}

func (v *Violation) cellLabel() string {
	if v.Cell == "" {
		return fmt.Sprintf("cell 0x%016x", v.Addr)
	}
	return fmt.Sprintf("cell %q", v.Cell)
}

type palette struct {
	title *color.Color
	op    *color.Color
	site  *color.Color
}

func newPalette(colored bool) palette {
	p := palette{
		title: color.New(color.FgRed, color.Bold),
		op:    color.New(color.FgYellow, color.Bold),
		site:  color.New(color.FgCyan),
	}
	if !colored {
		p.title.DisableColor()
		p.op.DisableColor()
		p.site.DisableColor()
	}
	return p
}

// Format writes the full report to w.
//
// Headers are colored unless color output is globally disabled
// (non-terminal output or NO_COLOR).
//
//nolint:errcheck // Report output is best effort.
func (v *Violation) Format(w io.Writer) {
	v.format(w, newPalette(!color.NoColor))
}

// String returns the report without color codes.
func (v *Violation) String() string {
	var buf strings.Builder
	v.format(&buf, newPalette(false))
	return buf.String()
}

//nolint:errcheck // Report output is best effort.
func (v *Violation) format(w io.Writer, p palette) {
	fmt.Fprint(w, rule)
	p.title.Fprintf(w, "BORROW VIOLATION: %v\n", v.Cause)

	name := ""
	if v.Cell != "" {
		name = fmt.Sprintf("%q ", v.Cell)
	}
	p.op.Fprintf(w, "%s of cell %s(0x%016x) in state %s:\n", capitalize(v.Op), name, v.Addr, v.State)
	fmt.Fprint(w, orUnknown(v.Stack))

	switch {
	case len(v.Outstanding) > 0:
		for _, s := range v.Outstanding {
			fmt.Fprint(w, "\n")
			p.site.Fprintf(w, "Outstanding %s borrow #%d acquired at:\n", s.Access, s.ID)
			fmt.Fprint(w, orUnknown(s.Stack))
		}
	case !v.Tracked && !v.State.IsUnborrowed():
		fmt.Fprint(w, "\n")
		fmt.Fprint(w, "  (outstanding borrow sites not tracked; enable origin tracking on the cell)\n")
	}

	fmt.Fprint(w, rule)
}

func orUnknown(stack string) string {
	if stack == "" {
		return "  (no stack trace captured)\n"
	}
	return stack
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
