// Package binpack implements the little-endian cursor primitives the
// container format is built from: a growable writer for fixed-width
// integers, length-prefixed byte strings and raw payloads, and a
// bounds-checked reader for the reverse direction.
package binpack

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrPrefixOverflow is returned when a length-prefixed field is larger
// than its prefix can express.
var ErrPrefixOverflow = errors.New("binpack: value exceeds length prefix")

// Writer appends little-endian encoded values to a growable buffer.
// The zero value is ready to use.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with capacity preallocated for n bytes.
func NewWriter(n int) *Writer {
	return &Writer{buf: make([]byte, 0, n)}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the accumulated buffer. The slice aliases the writer's
// storage; callers must not write to the Writer afterwards.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Uint16 appends a little-endian 16-bit value.
func (w *Writer) Uint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// Uint32 appends a little-endian 32-bit value.
func (w *Writer) Uint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// Raw appends p verbatim.
func (w *Writer) Raw(p []byte) {
	w.buf = append(w.buf, p...)
}

// String16 appends a 16-bit length prefix followed by the string bytes.
func (w *Writer) String16(s string) error {
	if len(s) > math.MaxUint16 {
		return ErrPrefixOverflow
	}
	w.Uint16(uint16(len(s)))
	w.buf = append(w.buf, s...)
	return nil
}
