// Package logging provides structured logging for cells.
//
// It wraps log/slog so every cell logs with the same field names. Cells use
// NoopLogger unless the caller supplies a handler.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/kolkov/impcell/internal/borrow"
	"github.com/kolkov/impcell/internal/report"
)

// Logger wraps slog.Logger with cell-specific helpers.
type Logger struct {
	*slog.Logger
}

// New wraps an existing slog.Logger. A nil logger yields NoopLogger.
func New(l *slog.Logger) *Logger {
	if l == nil {
		return NoopLogger()
	}
	return &Logger{Logger: l}
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithCell adds the cell name to every record.
func (l *Logger) WithCell(name string) *Logger {
	if name == "" {
		return l
	}
	return &Logger{
		Logger: l.Logger.With("cell", name),
	}
}

// LogViolation logs a borrow violation just before the cell panics.
func (l *Logger) LogViolation(v *report.Violation) {
	l.Error("borrow violation",
		"op", v.Op,
		"state", v.State.String(),
		"error", v.Cause,
		"outstanding", len(v.Outstanding),
	)
}

// LogAcquire logs a granted token at debug level.
func (l *Logger) LogAcquire(a borrow.Access, id uint64, state borrow.State) {
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("borrow acquired",
		"access", a.String(),
		"token", id,
		"state", state,
	)
}

// LogRelease logs a released token at debug level.
func (l *Logger) LogRelease(a borrow.Access, id uint64, state borrow.State) {
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("borrow released",
		"access", a.String(),
		"token", id,
		"state", state,
	)
}

// LogDestroy logs the destruction of a cell after its last strong handle
// was dropped.
func (l *Logger) LogDestroy(weak int) {
	l.Debug("cell destroyed",
		"weak_refs", weak,
	)
}
