package ops_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/impcell/imp"
	"github.com/kolkov/impcell/imp/ops"
)

func TestArithmetic(t *testing.T) {
	a := imp.New(12)
	b := imp.New(5)

	assert.Equal(t, 17, ops.Add(a, b))
	assert.Equal(t, 7, ops.Sub(a, b))
	assert.Equal(t, 60, ops.Mul(a, b))
	assert.Equal(t, 2, ops.Div(a, b))
	assert.Equal(t, 2, ops.Rem(a, b))
	assert.Equal(t, -12, ops.Neg(a))

	assert.Equal(t, 15, ops.AddValue(a, 3))
	assert.Equal(t, 9, ops.SubValue(a, 3))
	assert.Equal(t, 36, ops.MulValue(a, 3))
	assert.Equal(t, 4, ops.DivValue(a, 3))

	assert.Equal(t, imp.Unborrowed, a.State())
	assert.Equal(t, imp.Unborrowed, b.State())
}

func TestFloatArithmetic(t *testing.T) {
	a := imp.New(1.5)
	b := imp.New(0.25)

	assert.InDelta(t, 1.75, ops.Add(a, b), 1e-9)
	assert.InDelta(t, 6.0, ops.Div(a, b), 1e-9)

	ops.MulAssignValue(a, 2)
	assert.InDelta(t, 3.0, a.Get(), 1e-9)
}

func TestAssignForms(t *testing.T) {
	a := imp.New(10)
	b := imp.New(3)

	ops.AddAssign(a, b)
	assert.Equal(t, 13, a.Get())
	ops.SubAssign(a, b)
	assert.Equal(t, 10, a.Get())
	ops.MulAssign(a, b)
	assert.Equal(t, 30, a.Get())
	ops.DivAssign(a, b)
	assert.Equal(t, 10, a.Get())
	ops.RemAssign(a, b)
	assert.Equal(t, 1, a.Get())
	ops.AddAssignValue(a, 4)
	assert.Equal(t, 5, a.Get())
	ops.SubAssignValue(a, 1)
	assert.Equal(t, 4, a.Get())
	ops.DivAssignValue(a, 2)
	assert.Equal(t, 2, a.Get())

	assert.Equal(t, 3, b.Get(), "right-hand side unchanged")
}

func TestAssignSameHandle(t *testing.T) {
	a := imp.New(21)
	ops.AddAssign(a, a)
	assert.Equal(t, 42, a.Get())

	b := a.Clone()
	ops.MulAssign(a, b)
	assert.Equal(t, 42*42, b.Get())
}

func TestSameHandleBinaryTakesSharedTokens(t *testing.T) {
	a := imp.New(4)
	assert.Equal(t, 8, ops.Add(a, a))
	assert.Equal(t, 0, ops.Compare(a, a.Clone()))
	assert.True(t, ops.Equal(a, a))
}

func TestBitwise(t *testing.T) {
	a := imp.New(uint8(0b1100))
	b := imp.New(uint8(0b1010))

	assert.Equal(t, uint8(0b1000), ops.And(a, b))
	assert.Equal(t, uint8(0b1110), ops.Or(a, b))
	assert.Equal(t, uint8(0b0110), ops.Xor(a, b))
	assert.Equal(t, uint8(0b0100), ops.AndNot(a, b))

	ops.XorAssign(a, b)
	assert.Equal(t, uint8(0b0110), a.Get())
	ops.OrAssign(a, b)
	assert.Equal(t, uint8(0b1110), a.Get())
	ops.AndNotAssign(a, b)
	assert.Equal(t, uint8(0b0100), a.Get())
	ops.AndAssign(a, b)
	assert.Equal(t, uint8(0), a.Get())
}

func TestShifts(t *testing.T) {
	a := imp.New(int64(3))
	assert.Equal(t, int64(12), ops.Shl(a, 2))
	assert.Equal(t, int64(1), ops.Shr(a, 1))

	ops.ShlAssignValue(a, 4)
	assert.Equal(t, int64(48), a.Get())
	ops.ShrAssignValue(a, 3)
	assert.Equal(t, int64(6), a.Get())

	n := imp.New(1)
	ops.ShlAssign(a, n)
	assert.Equal(t, int64(12), a.Get())
	ops.ShrAssign(a, n)
	assert.Equal(t, int64(6), a.Get())
}

func TestNegativeShiftPanics(t *testing.T) {
	a := imp.New(1)
	assert.Panics(t, func() { ops.Shl(a, -1) })
	assert.Panics(t, func() { ops.ShrAssignValue(a, -2) })
	assert.Equal(t, imp.Unborrowed, a.State())
	assert.Equal(t, 1, a.Get())
}

func TestNot(t *testing.T) {
	assert.False(t, ops.Not(imp.New(true)))
	assert.True(t, ops.Not(imp.New(false)))
}

func TestComparison(t *testing.T) {
	a := imp.New("apple")
	b := imp.New("banana")

	assert.False(t, ops.Equal(a, b))
	assert.True(t, ops.EqualValue(a, "apple"))
	assert.Equal(t, -1, ops.Compare(a, b))
	assert.Equal(t, 1, ops.Compare(b, a))
	assert.True(t, ops.Less(a, b))
	assert.Equal(t, "apple", ops.Min(a, b))
	assert.Equal(t, "banana", ops.Max(a, b))
}

func TestEqualComparesValuesNotIdentity(t *testing.T) {
	a := imp.New(7)
	b := imp.New(7)
	assert.True(t, ops.Equal(a, b))
	assert.False(t, imp.Same(a, b))
}

func TestSlices(t *testing.T) {
	s := imp.New([]string{"a", "b"})

	assert.Equal(t, 2, ops.Len(s))
	assert.Equal(t, "b", ops.Index(s, 1))

	ops.SetIndex(s, 0, "z")
	ops.Append(s, "c", "d")
	assert.Equal(t, []string{"z", "b", "c", "d"}, s.Get())

	assert.Panics(t, func() { ops.Index(s, 10) })
	assert.Equal(t, imp.Unborrowed, s.State())
}

func TestMaps(t *testing.T) {
	var nilMap map[string]int
	m := imp.New(nilMap)

	_, ok := ops.Lookup(m, "x")
	assert.False(t, ok)

	ops.Store(m, "x", 1)
	ops.Store(m, "y", 2)
	v, ok := ops.Lookup(m, "x")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, ops.MapLen(m))

	ops.Delete(m, "x")
	assert.Equal(t, 1, ops.MapLen(m))
}

func TestOperatorWhileExclusiveFails(t *testing.T) {
	a := imp.New(1)
	b := a.Clone()
	w := a.Write()
	defer w.Release()

	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok, "expected error panic, got %v", r)
		var be *imp.BorrowError
		require.True(t, errors.As(err, &be))
		assert.ErrorIs(t, err, imp.ErrAlreadyMutablyBorrowed)
		assert.Equal(t, imp.Exclusive, b.State())
	}()
	ops.Add(b, imp.New(2))
}

func TestDivideByZeroReleasesTokens(t *testing.T) {
	a := imp.New(1)
	z := imp.New(0)
	assert.Panics(t, func() { ops.Div(a, z) })
	assert.Equal(t, imp.Unborrowed, a.State())
	assert.Equal(t, imp.Unborrowed, z.State())
}

func TestIntegerValueForms(t *testing.T) {
	a := imp.New(0b1101)

	assert.Equal(t, 1, ops.RemValue(a, 4))
	assert.Equal(t, 0b0100, ops.AndValue(a, 0b0110))
	assert.Equal(t, 0b1111, ops.OrValue(a, 0b0010))
	assert.Equal(t, 0b1011, ops.XorValue(a, 0b0110))

	ops.XorAssignValue(a, 0b0001)
	assert.Equal(t, 0b1100, a.Get())
	ops.OrAssignValue(a, 0b0011)
	assert.Equal(t, 0b1111, a.Get())
	ops.AndAssignValue(a, 0b1010)
	assert.Equal(t, 0b1010, a.Get())
	ops.RemAssignValue(a, 4)
	assert.Equal(t, 2, a.Get())
	assert.Equal(t, imp.Unborrowed, a.State())
}

func TestCompareWithValue(t *testing.T) {
	a := imp.New(2.5)

	assert.Equal(t, -1, ops.CompareValue(a, 3.0))
	assert.Equal(t, 0, ops.CompareValue(a, 2.5))
	assert.Equal(t, 1, ops.CompareValue(a, 1.0))
	assert.True(t, ops.LessValue(a, 2.6))
	assert.False(t, ops.LessValue(a, 2.5))
}

func TestSliceRanges(t *testing.T) {
	s := imp.New([]int{1, 2, 3, 4, 5})

	part := ops.Slice(s, 1, 3)
	assert.Equal(t, []int{2, 3}, part)
	part[0] = 99
	assert.Equal(t, []int{1, 2, 3, 4, 5}, s.Get(), "Slice returns a copy")

	ops.SetSlice(s, 3, 40, 50)
	assert.Equal(t, []int{1, 2, 3, 40, 50}, s.Get())

	assert.Panics(t, func() { ops.Slice(s, 2, 9) })
	assert.Panics(t, func() { ops.SetSlice(s, 4, 7, 8) })
	assert.Equal(t, imp.Unborrowed, s.State())
}
