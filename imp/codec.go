package imp

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ fmt.Formatter         = (*Handle[int])(nil)
	_ json.Marshaler        = (*Handle[int])(nil)
	_ json.Unmarshaler      = (*Handle[int])(nil)
	_ msgpack.CustomEncoder = (*Handle[int])(nil)
	_ msgpack.CustomDecoder = (*Handle[int])(nil)
)

// formatPanic carries a violation out of fmt, which recovers panics raised
// by Format methods and prints the recovered value. Printing calls Error,
// and fmt re-raises a panic from there unchanged, so the caller of Sprintf
// (or any other fmt function) receives the *BorrowError itself.
type formatPanic struct {
	err *BorrowError
}

func (p formatPanic) Error() string { panic(p.err) }

func (p formatPanic) Unwrap() error { return p.err }

// Format formats the value, not the handle: every verb and flag is applied
// to the value read through a momentary shared token.
//
// A violation (an outstanding exclusive token, a dropped handle) panics out
// of the fmt call with a *BorrowError like any other access; it is never
// rendered as a %!v(PANIC=...) string. Calling Format directly panics with a
// value that unwraps to the *BorrowError.
func (h *Handle[T]) Format(f fmt.State, verb rune) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(*BorrowError); ok {
				panic(formatPanic{err: err})
			}
			panic(r)
		}
	}()

	r := h.Read()
	defer r.Release()
	fmt.Fprintf(f, fmt.FormatString(f, verb), r.Get())
}

// MarshalJSON encodes the value.
func (h *Handle[T]) MarshalJSON() ([]byte, error) {
	r := h.Read()
	defer r.Release()
	return json.Marshal(r.Get())
}

// UnmarshalJSON decodes into the value through the exclusive token, so all
// clones observe the result. Decoding into a zero Handle allocates a new
// cell.
func (h *Handle[T]) UnmarshalJSON(data []byte) error {
	if h.Dropped() {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		h.box = newBox(v, options{})
		return nil
	}

	w := h.Write()
	defer w.Release()
	return json.Unmarshal(data, w.Ptr())
}

// EncodeMsgpack implements msgpack.CustomEncoder by encoding the value.
func (h *Handle[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	r := h.Read()
	defer r.Release()
	return enc.Encode(r.Get())
}

// DecodeMsgpack implements msgpack.CustomDecoder by decoding into the value
// through the exclusive token. Decoding into a zero Handle allocates a new
// cell.
func (h *Handle[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	if h.Dropped() {
		var v T
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decode cell value: %w", err)
		}
		h.box = newBox(v, options{})
		return nil
	}

	w := h.Write()
	defer w.Release()
	if err := dec.Decode(w.Ptr()); err != nil {
		return fmt.Errorf("decode cell value: %w", err)
	}
	return nil
}
