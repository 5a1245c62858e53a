// Package imp provides runtime-checked shared mutable cells.
//
// A Handle is a reference-counted pointer to a Cell. Any number of handles
// may refer to the same cell; every handle can read and write the value, and
// all of them observe the same value. The cell enforces at runtime that reads
// and writes never alias: at any moment there is either one write token or
// any number of read tokens, never both.
//
// # Quick Start
//
//	h := imp.New(5)
//	h2 := h.Clone() // same cell, not a copy
//
//	w := h.Write()
//	w.Set(10)
//	w.Release()
//
//	r := h2.Read()
//	defer r.Release()
//	fmt.Println(r.Get()) // 10
//
// # Tokens
//
// Read returns a *Ref (shared token), Write returns a *RefMut (exclusive
// token). A token must be released exactly once, normally with defer so the
// release runs on every exit path:
//
//	w := h.Write()
//	defer w.Release()
//	w.Ptr().Items = append(w.Ptr().Items, item)
//
// Get, Set, Replace, Take, View and Update take and release a token within a
// single call, which covers most call sites without an explicit token.
//
// # Violations
//
// Acquiring a token that conflicts with an outstanding one is a bug in the
// caller, not a condition to handle: the cell panics with a *BorrowError.
// The error unwraps to ErrAlreadyMutablyBorrowed or ErrAlreadyBorrowed and
// carries a report. With WithOriginTracking(true) the report also shows
// where every outstanding token was acquired:
//
//	==================
//	BORROW VIOLATION: already mutably borrowed
//	Shared borrow of cell "counter" (0x000000c000012345) in state Exclusive:
//	  main.reader()
//	      /path/to/main.go:15
//
//	Outstanding exclusive borrow #3 acquired at:
//	  main.writer()
//	      /path/to/main.go:9
//	==================
//
// # Lifetime
//
// Clone increments the strong count; Drop decrements it. When the last strong
// handle is dropped the OnDrop callback runs and the value is released. Weak
// handles (Downgrade) do not keep the value alive and are the way to express
// back-references without cycles.
//
// # Thread Safety
//
// Cells are NOT safe for concurrent use. They are designed for single-threaded,
// cooperative access; use sync.Mutex or sync.RWMutex to share values between
// goroutines.
package imp
