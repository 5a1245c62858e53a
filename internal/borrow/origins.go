package borrow

import (
	"slices"

	"github.com/kolkov/impcell/internal/stackdepot"
)

// Origin records where one outstanding token was acquired.
type Origin struct {
	// ID is the per-cell sequence number of the token.
	ID uint64

	// Access is the kind of token.
	Access Access

	// Stack is the hash of the acquisition stack in the owning Depot.
	Stack uint64
}

// Origins tracks acquisition sites of the outstanding tokens of one cell.
//
// A nil *Origins is valid and records nothing; cells without origin tracking
// pay only a nil check per acquisition.
type Origins struct {
	depot *stackdepot.Depot
	live  []Origin
}

// NewOrigins creates an origin tracker whose depot trims the given
// function-name prefixes from formatted stacks.
func NewOrigins(trim ...string) *Origins {
	return &Origins{depot: stackdepot.New(trim...)}
}

// Record registers a newly granted token under the given ID.
//
// skip is the number of frames above Record's caller to omit from the
// captured stack.
func (o *Origins) Record(id uint64, a Access, skip int) {
	if o == nil {
		return
	}
	o.live = append(o.live, Origin{
		ID:     id,
		Access: a,
		Stack:  o.depot.Capture(skip + 1),
	})
}

// Forget removes a released token.
func (o *Origins) Forget(id uint64) {
	if o == nil || id == 0 {
		return
	}
	o.live = slices.DeleteFunc(o.live, func(org Origin) bool { return org.ID == id })
}

// Live returns a copy of the outstanding origins in acquisition order.
func (o *Origins) Live() []Origin {
	if o == nil {
		return nil
	}
	return slices.Clone(o.live)
}

// Len returns the number of outstanding origins.
func (o *Origins) Len() int {
	if o == nil {
		return 0
	}
	return len(o.live)
}

// Stack returns the formatted acquisition stack of an origin.
func (o *Origins) Stack(org Origin) string {
	if o == nil {
		return stackdepot.FormatFrames(nil)
	}
	return o.depot.Format(org.Stack)
}

// Depot returns the stack depot backing the tracker.
func (o *Origins) Depot() *stackdepot.Depot {
	if o == nil {
		return nil
	}
	return o.depot
}
