package imp

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
)

type options struct {
	name   string
	track  bool
	logger *slog.Logger
	out    io.Writer
	onDrop any
}

// Option configures a cell at construction time.
type Option func(*options)

// WithName labels the cell in violation reports and log records.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithOriginTracking records the acquisition stack of every token so a
// violation report can show where the conflicting borrows were taken.
//
// Tracking costs one runtime.Callers per acquisition. Enable it while hunting
// a violation, or in tests.
func WithOriginTracking(enabled bool) Option {
	return func(o *options) {
		o.track = enabled
	}
}

// WithLogger sends cell events to l. Violations are logged at error level,
// token traffic and cell destruction at debug level.
//
// If nil is passed, logging is disabled (the default).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithReportOutput writes the full violation report to w before the cell
// panics, e.g. os.Stderr.
func WithReportOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// OnDrop registers fn to run with the value when the last strong handle is
// dropped. T must match the cell's value type; New panics otherwise.
func OnDrop[T any](fn func(T)) Option {
	return func(o *options) {
		o.onDrop = fn
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func dropFunc[T any](o options) func(T) {
	if o.onDrop == nil {
		return nil
	}
	fn, ok := o.onDrop.(func(T))
	if !ok {
		panic(fmt.Sprintf("imp: OnDrop callback %T does not accept cell value type %v", o.onDrop, reflect.TypeFor[T]()))
	}
	return fn
}
