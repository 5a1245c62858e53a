package imp

import (
	"io"
	"runtime"
	"unsafe"

	"github.com/kolkov/impcell/internal/borrow"
	"github.com/kolkov/impcell/internal/logging"
	"github.com/kolkov/impcell/internal/report"
	"github.com/kolkov/impcell/internal/stackdepot"
)

// BorrowState is the access currently granted on a cell: Unborrowed,
// Shared(n) or Exclusive.
type BorrowState = borrow.State

// Access is the kind of access a token grants.
type Access = borrow.Access

// Borrow states and access kinds.
const (
	Unborrowed = borrow.Unborrowed
	Exclusive  = borrow.Exclusive

	AccessShared    = borrow.AccessShared
	AccessExclusive = borrow.AccessExclusive
)

const pkgPath = "github.com/kolkov/impcell/imp"

// Frames of the cell machinery dropped from the top of reported stacks.
var trimPrefixes = []string{
	pkgPath + ".(*",
	pkgPath + ".droppedHandle",
	pkgPath + "/ops.",
}

// Cell owns one value and its borrow state.
//
// Access goes through AcquireShared and AcquireExclusive, which perform the
// state transition and return a token. A Cell has no reference counting of
// its own; Handle adds shared ownership on top of it.
//
// A Cell must not be copied after first use.
type Cell[T any] struct {
	_ noCopy

	value T
	state borrow.State
	seq   uint64

	name    string
	origins *borrow.Origins
	log     *logging.Logger
	out     io.Writer
}

// NewCell creates a standalone cell in state Unborrowed.
func NewCell[T any](v T, opts ...Option) *Cell[T] {
	c := &Cell[T]{}
	c.init(v, buildOptions(opts))
	return c
}

func (c *Cell[T]) init(v T, o options) {
	c.value = v
	c.state = borrow.Unborrowed
	c.name = o.name
	c.out = o.out
	c.log = logging.New(o.logger).WithCell(o.name)
	if o.track {
		c.origins = borrow.NewOrigins(trimPrefixes...)
	}
}

// AcquireShared grants a read token.
//
// Unborrowed becomes Shared(1) and Shared(n) becomes Shared(n+1). Panics with
// a *BorrowError wrapping ErrAlreadyMutablyBorrowed if a write token is
// outstanding.
func (c *Cell[T]) AcquireShared() *Ref[T] {
	id := c.acquire(borrow.AccessShared, report.OpSharedBorrow)
	return &Ref[T]{cell: c, id: id}
}

// AcquireExclusive grants the write token.
//
// Unborrowed becomes Exclusive. Panics with a *BorrowError wrapping
// ErrAlreadyBorrowed if read tokens are outstanding, or
// ErrAlreadyMutablyBorrowed if the write token is.
func (c *Cell[T]) AcquireExclusive() *RefMut[T] {
	id := c.acquire(borrow.AccessExclusive, report.OpExclusiveBorrow)
	return &RefMut[T]{cell: c, id: id}
}

// State returns the current borrow state.
func (c *Cell[T]) State() BorrowState {
	return c.state
}

// Name returns the name given with WithName.
func (c *Cell[T]) Name() string {
	return c.name
}

// Tracked reports whether the cell records token acquisition sites.
func (c *Cell[T]) Tracked() bool {
	return c.origins != nil
}

func (c *Cell[T]) acquire(a borrow.Access, op string) uint64 {
	next, err := c.state.Acquire(a)
	if err != nil {
		c.violate(op, err)
	}
	c.state = next
	c.seq++
	c.origins.Record(c.seq, a, 1)
	c.log.LogAcquire(a, c.seq, next)
	return c.seq
}

// release performs the inverse transition of acquire. Only tokens call it.
func (c *Cell[T]) release(a borrow.Access, id uint64) {
	next, err := c.state.Release(a)
	if err != nil {
		c.violate(report.OpRelease, err)
	}
	c.state = next
	c.origins.Forget(id)
	c.log.LogRelease(a, id, next)
}

func (c *Cell[T]) addr() uintptr {
	return uintptr(unsafe.Pointer(c))
}

// violate reports a failed operation and panics. It never returns.
func (c *Cell[T]) violate(op string, cause error) {
	v := &report.Violation{
		Cause:   cause,
		Op:      op,
		Cell:    c.name,
		Addr:    c.addr(),
		State:   c.state,
		Stack:   callerStack(),
		Tracked: c.origins != nil,
	}
	for _, org := range c.origins.Live() {
		v.Outstanding = append(v.Outstanding, report.Site{
			ID:     org.ID,
			Access: org.Access,
			Stack:  c.origins.Stack(org),
		})
	}

	c.log.LogViolation(v)
	if c.out != nil {
		v.Format(c.out)
	}
	panic(&BorrowError{v: v})
}

// callerStack formats the stack of the failing operation, starting at the
// first frame outside the cell machinery.
func callerStack() string {
	var pcs [stackdepot.MaxFrames * 2]uintptr
	n := runtime.Callers(2, pcs[:])
	return stackdepot.FormatFrames(pcs[:n], trimPrefixes...)
}

// droppedHandle panics for use of a dropped handle. There is no cell to
// report on, so the report carries the caller's stack only.
func droppedHandle() {
	panic(&BorrowError{v: &report.Violation{
		Cause: ErrHandleDropped,
		Op:    report.OpHandle,
		Stack: callerStack(),
	}})
}
