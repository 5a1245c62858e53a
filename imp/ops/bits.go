package ops

import (
	"fmt"

	"fortio.org/safecast"
	"golang.org/x/exp/constraints"

	"github.com/kolkov/impcell/imp"
)

func rem[T constraints.Integer](x, y T) T    { return x % y }
func and[T constraints.Integer](x, y T) T    { return x & y }
func or[T constraints.Integer](x, y T) T     { return x | y }
func xor[T constraints.Integer](x, y T) T    { return x ^ y }
func andNot[T constraints.Integer](x, y T) T { return x &^ y }

// Rem returns a % b.
func Rem[T constraints.Integer](a, b *imp.Handle[T]) T { return binary(a, b, rem[T]) }

// And returns a & b.
func And[T constraints.Integer](a, b *imp.Handle[T]) T { return binary(a, b, and[T]) }

// Or returns a | b.
func Or[T constraints.Integer](a, b *imp.Handle[T]) T { return binary(a, b, or[T]) }

// Xor returns a ^ b.
func Xor[T constraints.Integer](a, b *imp.Handle[T]) T { return binary(a, b, xor[T]) }

// AndNot returns a &^ b.
func AndNot[T constraints.Integer](a, b *imp.Handle[T]) T { return binary(a, b, andNot[T]) }

// RemAssign performs a %= b.
func RemAssign[T constraints.Integer](a, b *imp.Handle[T]) { assign(a, b, rem[T]) }

// AndAssign performs a &= b.
func AndAssign[T constraints.Integer](a, b *imp.Handle[T]) { assign(a, b, and[T]) }

// OrAssign performs a |= b.
func OrAssign[T constraints.Integer](a, b *imp.Handle[T]) { assign(a, b, or[T]) }

// XorAssign performs a ^= b.
func XorAssign[T constraints.Integer](a, b *imp.Handle[T]) { assign(a, b, xor[T]) }

// AndNotAssign performs a &^= b.
func AndNotAssign[T constraints.Integer](a, b *imp.Handle[T]) { assign(a, b, andNot[T]) }

// RemValue returns a % v.
func RemValue[T constraints.Integer](a *imp.Handle[T], v T) T { return withValue(a, v, rem[T]) }

// AndValue returns a & v.
func AndValue[T constraints.Integer](a *imp.Handle[T], v T) T { return withValue(a, v, and[T]) }

// OrValue returns a | v.
func OrValue[T constraints.Integer](a *imp.Handle[T], v T) T { return withValue(a, v, or[T]) }

// XorValue returns a ^ v.
func XorValue[T constraints.Integer](a *imp.Handle[T], v T) T { return withValue(a, v, xor[T]) }

// RemAssignValue performs a %= v.
func RemAssignValue[T constraints.Integer](a *imp.Handle[T], v T) { assignValue(a, v, rem[T]) }

// AndAssignValue performs a &= v.
func AndAssignValue[T constraints.Integer](a *imp.Handle[T], v T) { assignValue(a, v, and[T]) }

// OrAssignValue performs a |= v.
func OrAssignValue[T constraints.Integer](a *imp.Handle[T], v T) { assignValue(a, v, or[T]) }

// XorAssignValue performs a ^= v.
func XorAssignValue[T constraints.Integer](a *imp.Handle[T], v T) { assignValue(a, v, xor[T]) }

// shiftCount converts a shift count, panicking on negative counts the same
// way the language does for a negative shift operand.
func shiftCount(n int) uint {
	s, err := safecast.Conv[uint](n)
	if err != nil {
		panic(fmt.Errorf("ops: negative shift amount %d: %w", n, err))
	}
	return s
}

// Shl returns a << n.
func Shl[T constraints.Integer](a *imp.Handle[T], n int) T {
	s := shiftCount(n)
	r := a.Read()
	defer r.Release()
	return r.Get() << s
}

// Shr returns a >> n.
func Shr[T constraints.Integer](a *imp.Handle[T], n int) T {
	s := shiftCount(n)
	r := a.Read()
	defer r.Release()
	return r.Get() >> s
}

// ShlAssignValue performs a <<= n.
func ShlAssignValue[T constraints.Integer](a *imp.Handle[T], n int) {
	s := shiftCount(n)
	a.Update(func(v *T) { *v <<= s })
}

// ShrAssignValue performs a >>= n.
func ShrAssignValue[T constraints.Integer](a *imp.Handle[T], n int) {
	s := shiftCount(n)
	a.Update(func(v *T) { *v >>= s })
}

// ShlAssign performs a <<= b, where b holds the shift count.
func ShlAssign[T constraints.Integer](a *imp.Handle[T], b *imp.Handle[int]) {
	ShlAssignValue(a, b.Get())
}

// ShrAssign performs a >>= b, where b holds the shift count.
func ShrAssign[T constraints.Integer](a *imp.Handle[T], b *imp.Handle[int]) {
	ShrAssignValue(a, b.Get())
}
