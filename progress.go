package dirsnap

// ProgressStage identifies the current phase of an operation.
type ProgressStage uint8

const (
	// StageEnumerating indicates the operation is walking the source tree.
	StageEnumerating ProgressStage = iota

	// StageReading indicates file contents are being read into memory.
	StageReading

	// StageExtracting indicates files are being written to the
	// destination tree.
	StageExtracting
)

// ProgressEvent represents a progress update during collection or
// extraction.
type ProgressEvent struct {
	// Stage is the current operation phase.
	Stage ProgressStage

	// Path is the entry being processed, when applicable.
	Path string

	// FilesDone counts entries completed so far.
	FilesDone int

	// FilesTotal is the total entry count, zero while still unknown.
	FilesTotal int

	// BytesDone counts content bytes processed so far.
	BytesDone uint64
}

// ProgressFunc receives progress updates during operations.
// Implementations must be safe for concurrent calls.
type ProgressFunc func(ProgressEvent)
