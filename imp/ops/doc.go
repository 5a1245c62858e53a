// Package ops forwards operators to the values held in cells.
//
// Go has no operator overloading, so the arithmetic, bitwise, comparison and
// indexing operators of the wrapped value are exposed as generic functions.
// Every function acquires the tokens it needs from the handle, applies the
// operator and releases the tokens before returning; no function hands out
// an unchecked view of the value.
//
//	a := imp.New(3)
//	b := imp.New(4)
//	sum := ops.Add(a, b)     // 7, both cells read under shared tokens
//	ops.AddAssign(a, b)      // a = 7, b read first, then a written
//	ops.ShlAssignValue(a, 2) // a = 28
//
// The assignment forms read the right-hand side before taking the exclusive
// token on the left-hand side, so a handle may appear on both sides:
//
//	ops.AddAssign(a, a) // doubles a
package ops
