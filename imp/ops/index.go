package ops

import (
	"slices"

	"github.com/kolkov/impcell/imp"
)

// Index returns s[i]. An out of range index panics as in plain Go, after the
// token is released.
func Index[S ~[]E, E any](s *imp.Handle[S], i int) E {
	r := s.Read()
	defer r.Release()
	return r.Get()[i]
}

// SetIndex performs s[i] = v.
func SetIndex[S ~[]E, E any](s *imp.Handle[S], i int, v E) {
	w := s.Write()
	defer w.Release()
	w.Get()[i] = v
}

// Slice returns a copy of s[lo:hi]. The copy does not share storage with
// the cell, so it stays valid after the token is released.
func Slice[S ~[]E, E any](s *imp.Handle[S], lo, hi int) S {
	r := s.Read()
	defer r.Release()
	return slices.Clone(r.Get()[lo:hi])
}

// SetSlice copies vs into s[lo:lo+len(vs)]. It panics if the range is out
// of bounds, after the token is released.
func SetSlice[S ~[]E, E any](s *imp.Handle[S], lo int, vs ...E) {
	w := s.Write()
	defer w.Release()
	copy(w.Get()[lo:lo+len(vs)], vs)
}

// Len returns len(s).
func Len[S ~[]E, E any](s *imp.Handle[S]) int {
	r := s.Read()
	defer r.Release()
	return len(r.Get())
}

// Append performs s = append(s, vs...).
func Append[S ~[]E, E any](s *imp.Handle[S], vs ...E) {
	w := s.Write()
	defer w.Release()
	p := w.Ptr()
	*p = append(*p, vs...)
}

// Lookup returns m[k] and whether the key was present.
func Lookup[M ~map[K]V, K comparable, V any](m *imp.Handle[M], k K) (V, bool) {
	r := m.Read()
	defer r.Release()
	v, ok := r.Get()[k]
	return v, ok
}

// Store performs m[k] = v, allocating the map if it is nil.
func Store[M ~map[K]V, K comparable, V any](m *imp.Handle[M], k K, v V) {
	w := m.Write()
	defer w.Release()
	p := w.Ptr()
	if *p == nil {
		*p = make(M)
	}
	(*p)[k] = v
}

// Delete performs delete(m, k).
func Delete[M ~map[K]V, K comparable, V any](m *imp.Handle[M], k K) {
	w := m.Write()
	defer w.Release()
	delete(w.Get(), k)
}

// MapLen returns len(m).
func MapLen[M ~map[K]V, K comparable, V any](m *imp.Handle[M]) int {
	r := m.Read()
	defer r.Release()
	return len(r.Get())
}
