package ops

import (
	"cmp"

	"github.com/kolkov/impcell/imp"
)

// Equal reports whether the values of a and b are equal. It compares values,
// not identity; use imp.Same for identity.
func Equal[T comparable](a, b *imp.Handle[T]) bool {
	return binary(a, b, func(x, y T) bool { return x == y })
}

// EqualValue reports whether the value of a equals v.
func EqualValue[T comparable](a *imp.Handle[T], v T) bool {
	return withValue(a, v, func(x, y T) bool { return x == y })
}

// Compare returns cmp.Compare of the values of a and b.
func Compare[T cmp.Ordered](a, b *imp.Handle[T]) int {
	return binary(a, b, cmp.Compare[T])
}

// Less reports whether the value of a is less than the value of b.
func Less[T cmp.Ordered](a, b *imp.Handle[T]) bool {
	return binary(a, b, cmp.Less[T])
}

// CompareValue returns cmp.Compare of the value of a and v.
func CompareValue[T cmp.Ordered](a *imp.Handle[T], v T) int {
	return withValue(a, v, cmp.Compare[T])
}

// LessValue reports whether the value of a is less than v.
func LessValue[T cmp.Ordered](a *imp.Handle[T], v T) bool {
	return withValue(a, v, cmp.Less[T])
}

// Min returns the smaller of the values of a and b.
func Min[T cmp.Ordered](a, b *imp.Handle[T]) T {
	return binary(a, b, func(x, y T) T { return min(x, y) })
}

// Max returns the larger of the values of a and b.
func Max[T cmp.Ordered](a, b *imp.Handle[T]) T {
	return binary(a, b, func(x, y T) T { return max(x, y) })
}
