package dirsnap

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dirsnap/dirsnap/internal/binpack"
)

// UnmarshalArchive decodes a serialized archive buffer.
//
// Validation happens in a fixed order: buffer length against the fixed
// header, magic signature, format version, then every entry table row
// and block with explicit bounds checks. Any offset or length that
// would reach outside the buffer fails with ErrCorrupt, as does an
// entry whose declared size disagrees with the block length recorded
// in the table.
//
// The returned archive owns independent copies of all content; it does
// not alias buf.
func UnmarshalArchive(buf []byte) (*Archive, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrTruncated, len(buf), headerSize)
	}
	if !bytes.Equal(buf[:4], []byte(Magic)) {
		return nil, ErrInvalidSignature
	}

	r := binpack.NewReader(buf)
	_ = r.Seek(4)
	version, _ := r.Uint32()
	if version != FormatVersion {
		return nil, &UnsupportedVersionError{Found: version}
	}
	count, _ := r.Uint32()

	// The table must fit before any row is dereferenced.
	tableEnd := headerSize + int64(count)*tableRowSize
	if tableEnd > int64(len(buf)) {
		return nil, fmt.Errorf("%w: entry table for %d entries exceeds buffer", ErrCorrupt, count)
	}

	a := &Archive{Version: version, Entries: make([]Entry, 0, count)}
	for i := uint32(0); i < count; i++ {
		_ = r.Seek(headerSize + int(i)*tableRowSize)
		dataOffset, _ := r.Uint32()
		entryLen, _ := r.Uint32()

		entry, err := parseEntry(buf, dataOffset, entryLen)
		if err != nil {
			return nil, fmt.Errorf("dirsnap: entry %d: %w", i, err)
		}
		a.Entries = append(a.Entries, entry)
	}
	return a, nil
}

// parseEntry decodes one entry block at dataOffset, validating that
// every field stays inside the buffer and inside the block length the
// table recorded for it.
func parseEntry(buf []byte, dataOffset, entryLen uint32) (Entry, error) {
	end := int64(dataOffset) + int64(entryLen)
	if end > int64(len(buf)) {
		return Entry{}, fmt.Errorf("%w: block [%d, %d) exceeds buffer of %d bytes",
			ErrCorrupt, dataOffset, end, len(buf))
	}

	r := binpack.NewReader(buf[:end])
	if err := r.Seek(int(dataOffset)); err != nil {
		return Entry{}, corrupt(err)
	}

	path, err := r.String16()
	if err != nil {
		return Entry{}, corrupt(err)
	}
	size, err := r.Uint32()
	if err != nil {
		return Entry{}, corrupt(err)
	}
	mimeType, err := r.String16()
	if err != nil {
		return Entry{}, corrupt(err)
	}

	// The declared size must account for exactly the bytes left in the
	// block; trusting it unchecked would let a tampered size field read
	// into the next entry or silently truncate content.
	metadata := 2 + len(path) + 4 + 2 + len(mimeType)
	want := int64(entryLen) - int64(metadata)
	if int64(size) != want {
		return Entry{}, fmt.Errorf("%w: declared size %d, block holds %d content bytes",
			ErrCorrupt, size, want)
	}

	content, err := r.Raw(int(size))
	if err != nil {
		return Entry{}, corrupt(err)
	}

	return Entry{
		Path:     path,
		Size:     size,
		MIMEType: mimeType,
		Content:  bytes.Clone(content),
	}, nil
}

// corrupt maps a binpack bounds failure onto the package error.
func corrupt(err error) error {
	if errors.Is(err, binpack.ErrOutOfBounds) {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return err
}
