package imp

import (
	"github.com/kolkov/impcell/internal/report"
)

// rcBox is the shared allocation behind every handle to one cell.
type rcBox[T any] struct {
	cell   Cell[T]
	strong int
	weak   int
	onDrop func(T)
}

func newBox[T any](v T, o options) *rcBox[T] {
	b := &rcBox[T]{strong: 1, onDrop: dropFunc[T](o)}
	b.cell.init(v, o)
	return b
}

// Handle is a reference-counted, cloneable pointer to a Cell.
//
// All clones share one cell: a value written through any of them is seen by
// all of them. The cell lives until the last strong handle is dropped.
//
// A zero Handle is a dropped handle; it becomes usable only by decoding into
// it (UnmarshalJSON, DecodeMsgpack).
//
// A Handle must not be copied; use Clone, which counts the new owner.
type Handle[T any] struct {
	_ noCopy

	box *rcBox[T]
}

// New allocates a cell containing v in state Unborrowed and returns the first
// handle to it (strong count 1).
func New[T any](v T, opts ...Option) *Handle[T] {
	return &Handle[T]{box: newBox(v, buildOptions(opts))}
}

func (h *Handle[T]) live() *rcBox[T] {
	if h == nil || h.box == nil {
		droppedHandle()
	}
	return h.box
}

// Cell returns the underlying cell.
func (h *Handle[T]) Cell() *Cell[T] {
	return &h.live().cell
}

// Clone returns a new handle to the same cell and increments the strong
// count. The value is not copied.
func (h *Handle[T]) Clone() *Handle[T] {
	b := h.live()
	b.strong++
	return &Handle[T]{box: b}
}

// Drop releases this handle. When it was the last strong handle, the OnDrop
// callback runs and the value is released; weak handles stop upgrading.
//
// Dropping the last handle while a token is outstanding panics with
// ErrDroppedWhileBorrowed; the handle stays valid in that case. Dropping an
// already dropped handle is a no-op.
func (h *Handle[T]) Drop() {
	if h == nil || h.box == nil {
		return
	}
	b := h.box
	if b.strong == 1 && !b.cell.state.IsUnborrowed() {
		b.cell.violate(report.OpDrop, ErrDroppedWhileBorrowed)
	}

	h.box = nil
	b.strong--
	if b.strong > 0 {
		return
	}
	b.destroy()
}

func (b *rcBox[T]) destroy() {
	if b.onDrop != nil {
		b.onDrop(b.cell.value)
	}
	var zero T
	b.cell.value = zero
	b.cell.log.LogDestroy(b.weak)
}

// Read acquires a shared token. See Cell.AcquireShared.
func (h *Handle[T]) Read() *Ref[T] {
	return h.Cell().AcquireShared()
}

// Write acquires the exclusive token. See Cell.AcquireExclusive.
func (h *Handle[T]) Write() *RefMut[T] {
	return h.Cell().AcquireExclusive()
}

// Get returns a copy of the value through a momentary shared token.
func (h *Handle[T]) Get() T {
	r := h.Read()
	defer r.Release()
	return r.Get()
}

// Set stores v through a momentary exclusive token.
func (h *Handle[T]) Set(v T) {
	w := h.Write()
	defer w.Release()
	w.Set(v)
}

// Replace stores v and returns the previous value.
func (h *Handle[T]) Replace(v T) T {
	w := h.Write()
	defer w.Release()
	old := w.Get()
	w.Set(v)
	return old
}

// Take replaces the value with the zero value and returns it.
func (h *Handle[T]) Take() T {
	var zero T
	return h.Replace(zero)
}

// Swap exchanges the values of two cells. Swapping a cell with itself panics
// like any second exclusive borrow.
func (h *Handle[T]) Swap(other *Handle[T]) {
	a := h.Write()
	defer a.Release()
	b := other.Write()
	defer b.Release()

	av, bv := a.Ptr(), b.Ptr()
	*av, *bv = *bv, *av
}

// View calls fn with the value while holding a shared token.
func (h *Handle[T]) View(fn func(v T)) {
	r := h.Read()
	defer r.Release()
	fn(r.Get())
}

// Update calls fn with a pointer to the value while holding the exclusive
// token. The pointer must not escape fn.
func (h *Handle[T]) Update(fn func(v *T)) {
	w := h.Write()
	defer w.Release()
	fn(w.Ptr())
}

// State returns the cell's current borrow state.
func (h *Handle[T]) State() BorrowState {
	return h.live().cell.state
}

// Name returns the cell's name given with WithName.
func (h *Handle[T]) Name() string {
	return h.live().cell.name
}

// StrongCount returns the number of live strong handles to the cell.
func (h *Handle[T]) StrongCount() int {
	return h.live().strong
}

// WeakCount returns the number of live weak handles to the cell.
func (h *Handle[T]) WeakCount() int {
	return h.live().weak
}

// Dropped reports whether this handle was dropped (or is a zero Handle).
func (h *Handle[T]) Dropped() bool {
	return h == nil || h.box == nil
}

// Is reports whether h and other refer to the same cell.
func (h *Handle[T]) Is(other *Handle[T]) bool {
	return Same(h, other)
}

// Same reports whether a and b refer to the same cell allocation. Two
// distinct cells holding equal values are not the same. Dropped handles are
// never the same as anything.
func Same[T any](a, b *Handle[T]) bool {
	if a.Dropped() || b.Dropped() {
		return false
	}
	return a.box == b.box
}
