package imp

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellTransitions(t *testing.T) {
	c := NewCell(1, WithName("standalone"))
	assert.Equal(t, "standalone", c.Name())
	assert.False(t, c.Tracked())

	r1 := c.AcquireShared()
	r2 := c.AcquireShared()
	assert.Equal(t, 2, c.State().Readers())
	r1.Release()
	r2.Release()

	w := c.AcquireExclusive()
	assert.Equal(t, Exclusive, c.State())
	w.Set(2)
	w.Release()

	assert.Equal(t, Unborrowed, c.State())
	r := c.AcquireShared()
	assert.Equal(t, 2, r.Get())
	r.Release()
}

func TestTokenIDsIncrease(t *testing.T) {
	c := NewCell(0)

	r := c.AcquireShared()
	r.Release()
	w := c.AcquireExclusive()
	w.Release()

	assert.Equal(t, uint64(1), r.ID())
	assert.Equal(t, uint64(2), w.ID())
}

func TestDoubleReleaseFails(t *testing.T) {
	h := New(1)

	r := h.Read()
	r.Release()
	err := mustViolate(t, r.Release)
	require.ErrorIs(t, err, ErrTokenReleased)
	assert.Equal(t, "release", err.Op())

	w := h.Write()
	w.Release()
	err = mustViolate(t, w.Release)
	require.ErrorIs(t, err, ErrTokenReleased)

	assert.Equal(t, Unborrowed, h.State(), "double release must not corrupt the state")
}

func TestUseAfterReleaseFails(t *testing.T) {
	h := New(1)

	r := h.Read()
	r.Release()
	err := mustViolate(t, func() { r.Get() })
	require.ErrorIs(t, err, ErrTokenReleased)
	assert.Equal(t, "access", err.Op())

	w := h.Write()
	w.Release()
	mustViolate(t, func() { w.Set(2) })
	mustViolate(t, func() { w.Ptr() })
	assert.Equal(t, 1, h.Get())
}

func acquireForReport(h *Handle[int]) *RefMut[int] {
	return h.Write()
}

func TestReportShowsOutstandingOrigins(t *testing.T) {
	h := New(1, WithName("counter"), WithOriginTracking(true))
	require.True(t, h.Cell().Tracked())

	w := acquireForReport(h)
	defer w.Release()

	err := mustViolate(t, func() { h.Get() })
	require.ErrorIs(t, err, ErrAlreadyMutablyBorrowed)
	assert.Equal(t, "counter", err.Cell())
	assert.Equal(t, 1, err.Outstanding())
	assert.Equal(t, `imp: shared borrow of cell "counter": already mutably borrowed`, err.Error())

	rep := err.Report()
	assert.Contains(t, rep, "BORROW VIOLATION: already mutably borrowed")
	assert.Contains(t, rep, `Shared borrow of cell "counter"`)
	assert.Contains(t, rep, "Outstanding exclusive borrow #1 acquired at:")
	assert.Contains(t, rep, "acquireForReport")

	first := strings.Index(rep, "TestReportShowsOutstandingOrigins")
	require.NotEqual(t, -1, first)
	assert.NotContains(t, rep[:first], "(*Handle", "cell frames are trimmed from the failing stack")
}

func TestReportWithoutTracking(t *testing.T) {
	h := New(1)
	r := h.Read()
	defer r.Release()

	err := mustViolate(t, func() { h.Write() })
	assert.Zero(t, err.Outstanding())
	assert.Contains(t, err.Report(), "outstanding borrow sites not tracked")
}

func TestOriginsForgetReleasedTokens(t *testing.T) {
	h := New(1, WithOriginTracking(true))

	h.Read().Release()
	r := h.Read()
	defer r.Release()

	err := mustViolate(t, func() { h.Write() })
	assert.Equal(t, 1, err.Outstanding())
	assert.Contains(t, err.Report(), "Outstanding shared borrow #2")
}

func TestReportOutput(t *testing.T) {
	var buf bytes.Buffer
	h := New(1, WithReportOutput(&buf))

	w := h.Write()
	defer w.Release()
	mustViolate(t, func() { h.Write() })

	assert.Contains(t, buf.String(), "BORROW VIOLATION: already mutably borrowed")
}

func TestLoggerReceivesEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := New(1, WithName("logged"), WithLogger(logger))

	r := h.Read()
	mustViolate(t, func() { h.Write() })
	r.Release()
	h.Drop()

	out := buf.String()
	assert.Contains(t, out, `msg="borrow acquired"`)
	assert.Contains(t, out, `msg="borrow violation"`)
	assert.Contains(t, out, `msg="borrow released"`)
	assert.Contains(t, out, `msg="cell destroyed"`)
	assert.Contains(t, out, "cell=logged")
}

func TestNilOptionIgnored(t *testing.T) {
	h := New(1, nil, WithName("n"))
	assert.Equal(t, "n", h.Name())
}
