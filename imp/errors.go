package imp

import (
	"errors"

	"github.com/kolkov/impcell/internal/borrow"
	"github.com/kolkov/impcell/internal/report"
)

var (
	// ErrAlreadyMutablyBorrowed is the cause of a borrow attempted while a
	// write token is outstanding.
	ErrAlreadyMutablyBorrowed = borrow.ErrAlreadyMutablyBorrowed

	// ErrAlreadyBorrowed is the cause of a write borrow attempted while read
	// tokens are outstanding.
	ErrAlreadyBorrowed = borrow.ErrAlreadyBorrowed

	// ErrTooManyReaders is the cause of a read borrow that would overflow the
	// shared count.
	ErrTooManyReaders = borrow.ErrTooManyReaders

	// ErrInvalidRelease is the cause of a release that does not match the
	// cell's borrow state.
	ErrInvalidRelease = borrow.ErrInvalidRelease

	// ErrTokenReleased is the cause of using or releasing a token after it was
	// released.
	ErrTokenReleased = errors.New("token already released")

	// ErrHandleDropped is the cause of using a handle after Drop.
	ErrHandleDropped = errors.New("handle already dropped")

	// ErrDroppedWhileBorrowed is the cause of dropping the last strong handle
	// while a token is outstanding.
	ErrDroppedWhileBorrowed = errors.New("last handle dropped while borrowed")
)

// BorrowError is the panic value of every cell violation.
//
// The underlying cause can be matched with errors.Is:
//
//	defer func() {
//		if err, ok := recover().(*imp.BorrowError); ok && errors.Is(err, imp.ErrAlreadyBorrowed) {
//			...
//		}
//	}()
type BorrowError struct {
	v *report.Violation
}

func (e *BorrowError) Error() string { return "imp: " + e.v.Summary() }

func (e *BorrowError) Unwrap() error { return e.v.Cause }

// Op returns the operation that failed, e.g. "exclusive borrow".
func (e *BorrowError) Op() string { return e.v.Op }

// State returns the borrow state observed when the operation failed.
func (e *BorrowError) State() BorrowState { return e.v.State }

// Cell returns the name of the cell, empty if unnamed.
func (e *BorrowError) Cell() string { return e.v.Cell }

// Outstanding returns the number of outstanding tokens whose acquisition
// site was recorded.
func (e *BorrowError) Outstanding() int { return len(e.v.Outstanding) }

// Report returns the full multi-line violation report.
func (e *BorrowError) Report() string { return e.v.String() }
