package imp

// Weak is a non-owning reference to a cell.
//
// It does not keep the value alive. Use it for back-references (child to
// parent, observer to subject) that would otherwise form a strong cycle which
// reference counting never frees.
type Weak[T any] struct {
	box *rcBox[T]
}

// Downgrade creates a weak handle to the cell.
func (h *Handle[T]) Downgrade() *Weak[T] {
	b := h.live()
	b.weak++
	return &Weak[T]{box: b}
}

// Upgrade returns a new strong handle if the cell is still alive.
func (w *Weak[T]) Upgrade() (*Handle[T], bool) {
	if !w.Alive() {
		return nil, false
	}
	w.box.strong++
	return &Handle[T]{box: w.box}, true
}

// Alive reports whether at least one strong handle to the cell remains.
func (w *Weak[T]) Alive() bool {
	return w != nil && w.box != nil && w.box.strong > 0
}

// Release drops the weak handle. Releasing twice is a no-op.
func (w *Weak[T]) Release() {
	if w == nil || w.box == nil {
		return
	}
	w.box.weak--
	w.box = nil
}
