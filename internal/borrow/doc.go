// Package borrow implements the runtime borrow state of a shared cell.
//
// # Overview
//
// Every cell carries one State describing the access currently granted to
// its value:
//
//   - Unborrowed: no live tokens
//   - Shared(n): n live read tokens (n >= 1)
//   - Exclusive: exactly one live write token
//
// State is a plain int32 so transitions are a compare and a store:
//
//	 0  Unborrowed
//	>0  Shared(n)
//	-1  Exclusive
//
// # Transitions
//
//	Unborrowed --AcquireShared-->    Shared(1)
//	Shared(n)  --AcquireShared-->    Shared(n+1)
//	Unborrowed --AcquireExclusive--> Exclusive
//	Shared(n)  --ReleaseShared-->    Shared(n-1), or Unborrowed when n == 1
//	Exclusive  --ReleaseExclusive--> Unborrowed
//	Exclusive  --AcquireShared/AcquireExclusive--> error
//	Shared(n)  --AcquireExclusive--> error
//
// Transition methods are pure: they return the next state or an error and
// never mutate the receiver. The cell decides what to do with the error
// (it panics; a borrow conflict is a bug in the caller).
//
// # Origins
//
// Origins optionally remembers where each outstanding token was acquired so a
// violation report can point at the conflicting borrow, not only at the
// failing acquisition.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. Cells are designed for
// single-threaded, cooperative access.
package borrow
