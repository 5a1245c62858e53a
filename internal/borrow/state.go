package borrow

import (
	"errors"
	"log/slog"
	"math"
	"strconv"

	"fortio.org/safecast"
)

// Transition errors.
var (
	// ErrAlreadyMutablyBorrowed is returned when any acquisition is attempted
	// while an exclusive token is outstanding.
	ErrAlreadyMutablyBorrowed = errors.New("already mutably borrowed")

	// ErrAlreadyBorrowed is returned when an exclusive acquisition is attempted
	// while shared tokens are outstanding.
	ErrAlreadyBorrowed = errors.New("already immutably borrowed")

	// ErrTooManyReaders is returned when the shared count would overflow.
	ErrTooManyReaders = errors.New("too many shared borrows")

	// ErrInvalidRelease is returned when a release does not match the state.
	ErrInvalidRelease = errors.New("release does not match borrow state")
)

// Access identifies the kind of access a token grants.
type Access int

const (
	// AccessShared grants read-only access.
	AccessShared Access = iota
	// AccessExclusive grants read-write access.
	AccessExclusive
)

// String returns the string representation of an Access.
func (a Access) String() string {
	switch a {
	case AccessShared:
		return "shared"
	case AccessExclusive:
		return "exclusive"
	default:
		return "unknown"
	}
}

// State is the borrow state of one cell.
//
// The zero value is Unborrowed.
type State int32

const (
	// Unborrowed means no tokens are outstanding.
	Unborrowed State = 0
	// Exclusive means exactly one write token is outstanding.
	Exclusive State = -1

	// MaxShared is the largest representable shared count.
	MaxShared = math.MaxInt32
)

// Shared returns the state with n outstanding read tokens.
//
// Shared(0) is Unborrowed. Negative or out-of-range counts are rejected.
func Shared(n int) (State, error) {
	if n < 0 {
		return Unborrowed, ErrInvalidRelease
	}
	v, err := safecast.Conv[int32](n)
	if err != nil {
		return Unborrowed, ErrTooManyReaders
	}
	return State(v), nil
}

// IsUnborrowed reports whether no tokens are outstanding.
func (s State) IsUnborrowed() bool { return s == Unborrowed }

// IsShared reports whether one or more read tokens are outstanding.
func (s State) IsShared() bool { return s > 0 }

// IsExclusive reports whether a write token is outstanding.
func (s State) IsExclusive() bool { return s == Exclusive }

// Readers returns the number of outstanding read tokens.
func (s State) Readers() int {
	if s > 0 {
		return int(s)
	}
	return 0
}

// AcquireShared returns the state after granting one more read token.
func (s State) AcquireShared() (State, error) {
	switch {
	case s == Exclusive:
		return s, ErrAlreadyMutablyBorrowed
	case s < 0:
		return s, ErrInvalidRelease
	}
	next, err := safecast.Conv[int32](int64(s) + 1)
	if err != nil {
		return s, ErrTooManyReaders
	}
	return State(next), nil
}

// AcquireExclusive returns the state after granting the write token.
func (s State) AcquireExclusive() (State, error) {
	switch {
	case s == Unborrowed:
		return Exclusive, nil
	case s == Exclusive:
		return s, ErrAlreadyMutablyBorrowed
	case s > 0:
		return s, ErrAlreadyBorrowed
	default:
		return s, ErrInvalidRelease
	}
}

// ReleaseShared returns the state after one read token is released.
func (s State) ReleaseShared() (State, error) {
	if s <= 0 {
		return s, ErrInvalidRelease
	}
	return s - 1, nil
}

// ReleaseExclusive returns the state after the write token is released.
func (s State) ReleaseExclusive() (State, error) {
	if s != Exclusive {
		return s, ErrInvalidRelease
	}
	return Unborrowed, nil
}

// Acquire dispatches to AcquireShared or AcquireExclusive.
func (s State) Acquire(a Access) (State, error) {
	if a == AccessExclusive {
		return s.AcquireExclusive()
	}
	return s.AcquireShared()
}

// Release dispatches to ReleaseShared or ReleaseExclusive.
func (s State) Release(a Access) (State, error) {
	if a == AccessExclusive {
		return s.ReleaseExclusive()
	}
	return s.ReleaseShared()
}

// LogValue implements slog.LogValuer, so the state is rendered only when a
// record is emitted.
func (s State) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// String returns a human-readable representation of the state.
//
// Format: "Unborrowed", "Shared(3)", "Exclusive".
func (s State) String() string {
	switch {
	case s == Unborrowed:
		return "Unborrowed"
	case s == Exclusive:
		return "Exclusive"
	case s > 0:
		return "Shared(" + strconv.Itoa(int(s)) + ")"
	default:
		return "Invalid(" + strconv.Itoa(int(s)) + ")"
	}
}
