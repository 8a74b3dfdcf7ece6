package dirsnap

import (
	"fmt"
	"math"

	"github.com/dirsnap/dirsnap/internal/binpack"
)

// entryBlockLen returns the serialized block length for e: the
// length-prefixed path and MIME type, the declared-size field, and the
// content payload.
func entryBlockLen(e *Entry) int {
	return 2 + len(e.Path) + 4 + 2 + len(e.MIMEType) + len(e.Content)
}

// MarshalBinary encodes the archive into a single contiguous buffer.
//
// The layout is a 12-byte header (magic, version, entry count), an
// entry table of (offset, length) pairs, and the entry blocks placed
// contiguously after the table. All integers are little-endian. No
// padding or checksum is emitted; integrity is the signing layer's job.
//
// Offsets are computed in one forward pass: the first block starts
// immediately after the table, each subsequent block immediately after
// the previous one. Entry.Size is written as declared; archives whose
// Size fields disagree with their content lengths will be rejected by
// UnmarshalArchive.
func (a *Archive) MarshalBinary() ([]byte, error) {
	total := headerSize + len(a.Entries)*tableRowSize
	for i := range a.Entries {
		total += entryBlockLen(&a.Entries[i])
	}

	w := binpack.NewWriter(total)
	w.Raw([]byte(Magic))
	w.Uint32(a.Version)
	if uint64(len(a.Entries)) > math.MaxUint32 {
		return nil, fmt.Errorf("dirsnap: entry count %d overflows the count field", len(a.Entries))
	}
	w.Uint32(uint32(len(a.Entries)))

	// Entry table. Offsets are absolute buffer positions.
	offset := int64(headerSize) + int64(len(a.Entries))*tableRowSize
	for i := range a.Entries {
		blockLen := int64(entryBlockLen(&a.Entries[i]))
		if offset+blockLen > math.MaxUint32 {
			return nil, fmt.Errorf("dirsnap: entry %d overflows the 32-bit offset space", i)
		}
		w.Uint32(uint32(offset))
		w.Uint32(uint32(blockLen))
		offset += blockLen
	}

	for i := range a.Entries {
		e := &a.Entries[i]
		if e.Path == "" {
			return nil, ErrEmptyPath
		}
		if len(e.Path) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: %d bytes", ErrPathTooLong, len(e.Path))
		}
		if len(e.MIMEType) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: %d bytes", ErrMIMETooLong, len(e.MIMEType))
		}
		_ = w.String16(e.Path)
		w.Uint32(e.Size)
		_ = w.String16(e.MIMEType)
		w.Raw(e.Content)
	}

	return w.Bytes(), nil
}
