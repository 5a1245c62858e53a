package imp

import (
	"github.com/kolkov/impcell/internal/borrow"
	"github.com/kolkov/impcell/internal/report"
)

// noCopy makes go vet's copylocks check flag copies of the embedding struct.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Ref is a shared (read-only) token on a cell.
//
// It must be released exactly once. Any use after Release panics with a
// *BorrowError wrapping ErrTokenReleased.
type Ref[T any] struct {
	_ noCopy

	cell     *Cell[T]
	id       uint64
	released bool
}

// Get returns the value.
//
// For reference types (slices, maps, pointers) the returned value shares
// storage with the cell; mutating through it bypasses the borrow check.
func (r *Ref[T]) Get() T {
	r.check(report.OpAccess)
	return r.cell.value
}

// Release returns the token to the cell: Shared(n) becomes Shared(n-1), or
// Unborrowed when n was 1.
func (r *Ref[T]) Release() {
	r.check(report.OpRelease)
	r.released = true
	r.cell.release(borrow.AccessShared, r.id)
}

// ID returns the token's per-cell sequence number as shown in reports.
func (r *Ref[T]) ID() uint64 { return r.id }

func (r *Ref[T]) check(op string) {
	if r.released {
		r.cell.violate(op, ErrTokenReleased)
	}
}

// RefMut is the exclusive (read-write) token on a cell.
//
// It must be released exactly once. Any use after Release panics with a
// *BorrowError wrapping ErrTokenReleased.
type RefMut[T any] struct {
	_ noCopy

	cell     *Cell[T]
	id       uint64
	released bool
}

// Get returns the value.
func (m *RefMut[T]) Get() T {
	m.check(report.OpAccess)
	return m.cell.value
}

// Set replaces the value. Every handle to the cell observes the new value.
func (m *RefMut[T]) Set(v T) {
	m.check(report.OpAccess)
	m.cell.value = v
}

// Ptr returns a pointer to the value for in-place mutation.
//
// The pointer is valid only until Release; retaining it defeats the borrow
// check.
func (m *RefMut[T]) Ptr() *T {
	m.check(report.OpAccess)
	return &m.cell.value
}

// Release returns the token to the cell: Exclusive becomes Unborrowed.
func (m *RefMut[T]) Release() {
	m.check(report.OpRelease)
	m.released = true
	m.cell.release(borrow.AccessExclusive, m.id)
}

// ID returns the token's per-cell sequence number as shown in reports.
func (m *RefMut[T]) ID() uint64 { return m.id }

func (m *RefMut[T]) check(op string) {
	if m.released {
		m.cell.violate(op, ErrTokenReleased)
	}
}
