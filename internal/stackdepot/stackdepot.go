// Package stackdepot stores acquisition-site stack traces for borrow reports.
//
// A Depot deduplicates identical stacks: each unique stack is stored once and
// referenced by a 64-bit hash. Cells that track borrow origins own one Depot
// each, so the hash recorded for every outstanding token stays cheap while the
// full trace is only formatted when a violation is reported.
//
// Usage:
//
//	d := stackdepot.New()
//
//	// Capture the caller's stack and remember the hash
//	hash := d.Capture(0)
//
//	// Later, when building a report
//	if st := d.Get(hash); st != nil {
//	    fmt.Print(st.Format())
//	}
//
// Thread Safety: a Depot is NOT safe for concurrent use. It inherits the
// single-threaded model of the cell that owns it.
package stackdepot

import (
	"fmt"
	"hash/fnv"
	"runtime"
	"strings"
	"unsafe"
)

const (
	// MaxFrames is the maximum number of stack frames to capture.
	// Borrow bugs are almost always visible in the top frames of the
	// acquiring call site.
	MaxFrames = 16
)

// StackTrace represents a captured stack trace with fixed size.
type StackTrace struct {
	PC [MaxFrames]uintptr // Program counters, zero-terminated.
}

// Frames returns the non-zero program counters of the trace.
func (st *StackTrace) Frames() []uintptr {
	if st == nil {
		return nil
	}
	for i, pc := range st.PC {
		if pc == 0 {
			return st.PC[:i]
		}
	}
	return st.PC[:]
}

// Depot is a deduplicating store for stack traces.
//
// Key: uint64 hash (FNV-1a of program counters)
// Value: *StackTrace
type Depot struct {
	stacks map[uint64]*StackTrace
	trim   []string
}

// New creates an empty Depot.
//
// trim lists function-name prefixes that are dropped from the top of every
// formatted stack, so reports start at user code instead of inside the cell
// machinery.
func New(trim ...string) *Depot {
	return &Depot{
		stacks: make(map[uint64]*StackTrace),
		trim:   trim,
	}
}

// Capture captures the current stack trace and returns its hash.
//
// skip is the number of additional frames to skip above Capture's caller.
// If the same stack was captured before, the existing entry is reused.
//
// Returns 0 if no stack is available.
func (d *Depot) Capture(skip int) uint64 {
	var pcs [MaxFrames]uintptr
	// Skip runtime.Callers and Capture itself.
	n := runtime.Callers(2+skip, pcs[:])
	if n == 0 {
		return 0
	}

	hash := hashStack(pcs[:n])
	if _, exists := d.stacks[hash]; exists {
		return hash
	}

	d.stacks[hash] = &StackTrace{PC: pcs}
	return hash
}

// Get retrieves a stack trace by hash.
//
// Returns nil for the zero hash or an unknown hash.
func (d *Depot) Get(hash uint64) *StackTrace {
	if hash == 0 {
		return nil
	}
	return d.stacks[hash]
}

// Len returns the number of unique stacks stored.
func (d *Depot) Len() int {
	return len(d.stacks)
}

// Reset clears the depot.
func (d *Depot) Reset() {
	clear(d.stacks)
}

// Format formats a stored stack using the depot's trim prefixes.
func (d *Depot) Format(hash uint64) string {
	return FormatFrames(d.Get(hash).Frames(), d.trim...)
}

// Format formats the stack trace without trimming.
func (st *StackTrace) Format() string {
	if st == nil {
		return "  <unknown>\n"
	}
	return FormatFrames(st.Frames())
}

// FormatFrames formats program counters for a borrow report:
//
//	main.writer()
//	    /path/to/file.go:45
//	main.main()
//	    /path/to/file.go:30
//
// Runtime frames are always dropped. Leading frames whose function starts with
// one of the trim prefixes are dropped as well.
func FormatFrames(pcs []uintptr, trim ...string) string {
	if len(pcs) == 0 {
		return "  <unknown>\n"
	}

	frames := runtime.CallersFrames(pcs)
	leading := true

	var buf strings.Builder
	for {
		frame, more := frames.Next()
		if frame.PC == 0 {
			break
		}

		skip := strings.HasPrefix(frame.Function, "runtime.")
		if !skip && leading {
			skip = hasAnyPrefix(frame.Function, trim)
			leading = skip
		}

		if !skip {
			fmt.Fprintf(&buf, "  %s()\n", frame.Function)
			fmt.Fprintf(&buf, "      %s:%d\n", frame.File, frame.Line)
		}

		if !more {
			break
		}
	}

	if buf.Len() == 0 {
		return "  <runtime internal>\n"
	}
	return buf.String()
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// hashStack computes the FNV-1a hash of program counters.
func hashStack(pcs []uintptr) uint64 {
	h := fnv.New64a()

	for _, pc := range pcs {
		//nolint:gosec // G103: reading the PC value as bytes for hashing
		pcBytes := (*[8]byte)(unsafe.Pointer(&pc))[:]
		_, _ = h.Write(pcBytes) // Write never returns error for hash.Hash.
	}

	return h.Sum64()
}
