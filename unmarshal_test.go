package dirsnap

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validBuffer serializes a small archive for tamper tests.
func validBuffer(t *testing.T) []byte {
	t.Helper()
	a := New()
	a.Entries = append(a.Entries,
		NewEntry("a.txt", "text/plain", []byte("aaaa")),
		NewEntry("b.txt", "text/plain", []byte("bb")),
	)
	buf, err := a.MarshalBinary()
	require.NoError(t, err)
	return buf
}

func TestUnmarshalTruncatedHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		buf  []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"magic only", []byte("DSAP")},
		{"eleven bytes", make([]byte, 11)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := UnmarshalArchive(tt.buf)
			require.ErrorIs(t, err, ErrTruncated)
		})
	}
}

func TestUnmarshalInvalidSignature(t *testing.T) {
	t.Parallel()

	// "INVALID" followed by a plausible version and count.
	buf := append([]byte("INVALID"), 1, 0, 0, 0, 0, 0, 0, 0)
	_, err := UnmarshalArchive(buf)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestUnmarshalUnsupportedVersion(t *testing.T) {
	t.Parallel()

	buf := validBuffer(t)
	binary.LittleEndian.PutUint32(buf[4:8], 999)

	_, err := UnmarshalArchive(buf)
	var verr *UnsupportedVersionError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, uint32(999), verr.Found)
}

func TestUnmarshalTableBeyondBuffer(t *testing.T) {
	t.Parallel()

	buf := validBuffer(t)
	// Claim far more entries than the buffer can hold rows for.
	binary.LittleEndian.PutUint32(buf[8:12], 1<<20)

	_, err := UnmarshalArchive(buf)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestUnmarshalBlockBeyondBuffer(t *testing.T) {
	t.Parallel()

	buf := validBuffer(t)
	// Point the first entry past the end of the buffer.
	binary.LittleEndian.PutUint32(buf[12:16], uint32(len(buf)))

	_, err := UnmarshalArchive(buf)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestUnmarshalOversizedEntryLength(t *testing.T) {
	t.Parallel()

	buf := validBuffer(t)
	// Stretch the first entry's recorded length past the buffer end.
	binary.LittleEndian.PutUint32(buf[16:20], uint32(len(buf)))

	_, err := UnmarshalArchive(buf)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestUnmarshalSizeMismatch(t *testing.T) {
	t.Parallel()

	// The declared size lives right after the 2-byte path length and
	// the path bytes of the first block.
	buf := validBuffer(t)
	blockStart := binary.LittleEndian.Uint32(buf[12:16])
	pathLen := binary.LittleEndian.Uint16(buf[blockStart : blockStart+2])
	sizeOff := int(blockStart) + 2 + int(pathLen)

	tests := []struct {
		name string
		size uint32
	}{
		{"size too large", 9999},
		{"size too small", 1},
		{"size zero", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := append([]byte(nil), buf...)
			binary.LittleEndian.PutUint32(tampered[sizeOff:sizeOff+4], tt.size)

			_, err := UnmarshalArchive(tampered)
			require.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestUnmarshalDoesNotAliasBuffer(t *testing.T) {
	t.Parallel()

	buf := validBuffer(t)
	parsed, err := UnmarshalArchive(buf)
	require.NoError(t, err)

	// Scribbling over the source buffer must not change parsed content.
	for i := range buf {
		buf[i] = 0xff
	}
	assert.Equal(t, []byte("aaaa"), parsed.Entries[0].Content)
	assert.Equal(t, "a.txt", parsed.Entries[0].Path)
}

func TestUnmarshalPreservesTraversalPaths(t *testing.T) {
	t.Parallel()

	// Parsing is not the security boundary: an archive with traversal
	// paths parses fine and is rejected at extraction.
	a := New()
	a.Entries = append(a.Entries, NewEntry("../escape.txt", "text/plain", []byte("x")))
	buf, err := a.MarshalBinary()
	require.NoError(t, err)

	parsed, err := UnmarshalArchive(buf)
	require.NoError(t, err)
	require.Len(t, parsed.Entries, 1)
	assert.Equal(t, "../escape.txt", parsed.Entries[0].Path)
}
