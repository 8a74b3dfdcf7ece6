package binpack

import (
	"encoding/binary"
	"errors"
)

// ErrOutOfBounds is returned when a read would cross the end of the
// buffer. Callers treat it as corruption of the containing structure.
var ErrOutOfBounds = errors.New("binpack: read out of bounds")

// Reader decodes little-endian values from a fixed buffer, checking
// every access against the buffer length before slicing.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(off int) error {
	if off < 0 || off > len(r.buf) {
		return ErrOutOfBounds
	}
	r.off = off
	return nil
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int {
	return r.off
}

// Len returns the total buffer length.
func (r *Reader) Len() int {
	return len(r.buf)
}

// ensure verifies n more bytes are available at the cursor.
func (r *Reader) ensure(n int) error {
	if n < 0 || r.off > len(r.buf)-n {
		return ErrOutOfBounds
	}
	return nil
}

// Uint16 reads a little-endian 16-bit value.
func (r *Reader) Uint16() (uint16, error) {
	if err := r.ensure(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

// Uint32 reads a little-endian 32-bit value.
func (r *Reader) Uint32() (uint32, error) {
	if err := r.ensure(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

// Raw reads exactly n bytes. The returned slice aliases the underlying
// buffer and must be copied if retained past the buffer's lifetime.
func (r *Reader) Raw(n int) ([]byte, error) {
	if err := r.ensure(n); err != nil {
		return nil, err
	}
	p := r.buf[r.off : r.off+n]
	r.off += n
	return p, nil
}

// String16 reads a 16-bit length prefix followed by that many bytes.
func (r *Reader) String16() (string, error) {
	n, err := r.Uint16()
	if err != nil {
		return "", err
	}
	p, err := r.Raw(int(n))
	if err != nil {
		return "", err
	}
	return string(p), nil
}
