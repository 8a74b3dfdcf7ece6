package dirsnap

import (
	"errors"
	"fmt"
)

// Format constants. The magic and version fields are the only parts of
// the header that discriminate a DSAP container from arbitrary bytes.
const (
	// Magic is the 4-byte signature at the start of every archive.
	Magic = "DSAP"

	// FormatVersion is the single container version this package
	// reads and writes.
	FormatVersion uint32 = 1

	// headerSize is the fixed prefix: magic + version + entry count.
	headerSize = 12

	// tableRowSize is one entry-table row: data offset + entry length.
	tableRowSize = 8
)

// Entry represents one file captured in an archive.
type Entry struct {
	// Path is the file path relative to the archived root, using
	// forward-slash separators on every platform. It is never empty
	// and is the entry's identity within the archive.
	Path string

	// Size is the declared content length in bytes. The collector
	// always sets it from the bytes actually read.
	Size uint32

	// MIMEType describes the content. Purely advisory; it is never
	// used for safety decisions. Defaults to application/octet-stream
	// when detection fails.
	MIMEType string

	// Content is the raw file content at capture time.
	Content []byte
}

// NewEntry builds an Entry for content, deriving Size from the bytes.
func NewEntry(path, mimeType string, content []byte) Entry {
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}
	return Entry{
		Path:     path,
		Size:     uint32(len(content)),
		MIMEType: mimeType,
		Content:  content,
	}
}

// DefaultMIMEType is recorded when no type can be derived for a file.
const DefaultMIMEType = "application/octet-stream"

// Archive is an ordered collection of entries plus a format version.
//
// Ordering is the order entries were discovered during collection; the
// format neither sorts nor deduplicates. An archive with zero entries
// is valid and represents an empty or fully filtered directory.
type Archive struct {
	// Version is the container format version, FormatVersion for
	// archives produced by this package.
	Version uint32

	// Entries holds the captured files in discovery order.
	Entries []Entry
}

// New returns an empty Archive at the current format version.
func New() *Archive {
	return &Archive{Version: FormatVersion}
}

// Sentinel errors.
var (
	// ErrInvalidSignature is returned when a buffer does not start
	// with the DSAP magic.
	ErrInvalidSignature = errors.New("dirsnap: invalid archive signature")

	// ErrTruncated is returned when a buffer is too short to hold the
	// fixed archive header.
	ErrTruncated = errors.New("dirsnap: truncated archive")

	// ErrCorrupt is returned when the entry table or an entry block
	// references bytes outside the buffer, or when an entry's declared
	// size disagrees with its recorded block length.
	ErrCorrupt = errors.New("dirsnap: corrupt archive")

	// ErrNotDirectory is returned when the collection source exists
	// but is not a directory.
	ErrNotDirectory = errors.New("dirsnap: source is not a directory")

	// ErrEmptyPath is returned when an entry with an empty path is
	// serialized.
	ErrEmptyPath = errors.New("dirsnap: entry path is empty")

	// ErrPathTooLong is returned when an entry path exceeds the
	// 16-bit length prefix the format allows.
	ErrPathTooLong = errors.New("dirsnap: entry path too long")

	// ErrMIMETooLong is returned when a MIME type string exceeds the
	// 16-bit length prefix the format allows.
	ErrMIMETooLong = errors.New("dirsnap: MIME type too long")

	// ErrFileTooLarge is returned when a collected file's content does
	// not fit the 32-bit size field.
	ErrFileTooLarge = errors.New("dirsnap: file exceeds 32-bit size field")

	// ErrTooManyFiles is returned when collection exceeds the
	// configured file limit.
	ErrTooManyFiles = errors.New("dirsnap: too many files")

	// ErrUnsupportedAlgorithm is returned when a compression algorithm
	// cannot be used for the requested direction.
	ErrUnsupportedAlgorithm = errors.New("dirsnap: unsupported compression algorithm")

	// ErrBadSignature is returned when a detached signature does not
	// verify against the supplied public key.
	ErrBadSignature = errors.New("dirsnap: signature verification failed")
)

// UnsupportedVersionError is returned when a buffer carries the DSAP
// magic but a format version this package does not understand.
type UnsupportedVersionError struct {
	// Found is the version read from the buffer.
	Found uint32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("dirsnap: unsupported format version %d (supported: %d)", e.Found, FormatVersion)
}

// PathTraversalError is returned when an entry path would resolve
// outside the extraction root. It aborts the whole extraction.
type PathTraversalError struct {
	// Path is the offending entry path as stored in the archive.
	Path string
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("dirsnap: entry path %q escapes the destination root", e.Path)
}
