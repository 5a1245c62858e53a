package ops

import (
	"golang.org/x/exp/constraints"

	"github.com/kolkov/impcell/imp"
)

// Number is the set of types supporting + - * /.
type Number interface {
	constraints.Integer | constraints.Float | constraints.Complex
}

// Signed is the set of types supporting unary minus.
type Signed interface {
	constraints.Signed | constraints.Float | constraints.Complex
}

// binary reads both operands under shared tokens. a and b may be the same
// handle; two shared tokens on one cell are legal.
func binary[T any, R any](a, b *imp.Handle[T], fn func(x, y T) R) R {
	ra := a.Read()
	defer ra.Release()
	rb := b.Read()
	defer rb.Release()
	return fn(ra.Get(), rb.Get())
}

// withValue reads a under a shared token and combines it with a plain value.
func withValue[T any, R any](a *imp.Handle[T], v T, fn func(x, y T) R) R {
	ra := a.Read()
	defer ra.Release()
	return fn(ra.Get(), v)
}

// assign reads b, then applies fn to a under the exclusive token.
func assign[T any](a, b *imp.Handle[T], fn func(x, y T) T) {
	v := b.Get()
	assignValue(a, v, fn)
}

func assignValue[T any](a *imp.Handle[T], v T, fn func(x, y T) T) {
	w := a.Write()
	defer w.Release()
	p := w.Ptr()
	*p = fn(*p, v)
}

func add[T Number](x, y T) T { return x + y }
func sub[T Number](x, y T) T { return x - y }
func mul[T Number](x, y T) T { return x * y }
func div[T Number](x, y T) T { return x / y }

// Add returns a + b.
func Add[T Number](a, b *imp.Handle[T]) T { return binary(a, b, add[T]) }

// Sub returns a - b.
func Sub[T Number](a, b *imp.Handle[T]) T { return binary(a, b, sub[T]) }

// Mul returns a * b.
func Mul[T Number](a, b *imp.Handle[T]) T { return binary(a, b, mul[T]) }

// Div returns a / b. Integer division by zero panics as in plain Go, after
// the tokens are released.
func Div[T Number](a, b *imp.Handle[T]) T { return binary(a, b, div[T]) }

// AddValue returns a + v.
func AddValue[T Number](a *imp.Handle[T], v T) T { return withValue(a, v, add[T]) }

// SubValue returns a - v.
func SubValue[T Number](a *imp.Handle[T], v T) T { return withValue(a, v, sub[T]) }

// MulValue returns a * v.
func MulValue[T Number](a *imp.Handle[T], v T) T { return withValue(a, v, mul[T]) }

// DivValue returns a / v.
func DivValue[T Number](a *imp.Handle[T], v T) T { return withValue(a, v, div[T]) }

// AddAssign performs a += b.
func AddAssign[T Number](a, b *imp.Handle[T]) { assign(a, b, add[T]) }

// SubAssign performs a -= b.
func SubAssign[T Number](a, b *imp.Handle[T]) { assign(a, b, sub[T]) }

// MulAssign performs a *= b.
func MulAssign[T Number](a, b *imp.Handle[T]) { assign(a, b, mul[T]) }

// DivAssign performs a /= b.
func DivAssign[T Number](a, b *imp.Handle[T]) { assign(a, b, div[T]) }

// AddAssignValue performs a += v.
func AddAssignValue[T Number](a *imp.Handle[T], v T) { assignValue(a, v, add[T]) }

// SubAssignValue performs a -= v.
func SubAssignValue[T Number](a *imp.Handle[T], v T) { assignValue(a, v, sub[T]) }

// MulAssignValue performs a *= v.
func MulAssignValue[T Number](a *imp.Handle[T], v T) { assignValue(a, v, mul[T]) }

// DivAssignValue performs a /= v.
func DivAssignValue[T Number](a *imp.Handle[T], v T) { assignValue(a, v, div[T]) }

// Neg returns -a.
func Neg[T Signed](a *imp.Handle[T]) T {
	r := a.Read()
	defer r.Release()
	return -r.Get()
}

// Not returns !a.
func Not(a *imp.Handle[bool]) bool {
	r := a.Read()
	defer r.Release()
	return !r.Get()
}
