package imp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mustViolate runs fn and returns the *BorrowError it panics with.
func mustViolate(t *testing.T, fn func()) (got *BorrowError) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a borrow violation")

		err, ok := r.(*BorrowError)
		require.Truef(t, ok, "panic value %T is not *BorrowError: %v", r, r)
		got = err
	}()

	fn()
	return nil
}
