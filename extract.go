package dirsnap

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Extract writes a parsed archive to destDir, creating it if absent.
//
// Every entry path is validated before any byte is written: the path is
// resolved against destDir and must stay equal to or below it. A single
// failing entry rejects the whole archive with a PathTraversalError and
// leaves the filesystem untouched, so a malicious archive has zero side
// effects. The containment check is lexical and does not follow
// symlinks: a symlinked subdirectory already present under destDir can
// still redirect writes, so extract into fresh or trusted directories.
//
// Entries are then written in list order. Parent directories are
// created as needed and existing files are overwritten. Duplicate
// entry paths are legal in the format; the last occurrence wins.
// Each file is written to a temp file in its final directory and
// renamed into place, so partially written content is never visible at
// the destination path.
func Extract(ctx context.Context, a *Archive, destDir string, opts ...ExtractOption) error {
	cfg := extractConfig{dirMode: 0o750, fileMode: 0o644}
	for _, opt := range opts {
		opt(&cfg)
	}

	x := &extractor{cfg: cfg, logger: cfg.logger}

	rootAbs, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("resolve destination %s: %w", destDir, err)
	}

	// Phase 1: vet every destination path. Pure, no I/O.
	destPaths := make([]string, len(a.Entries))
	for i := range a.Entries {
		dest, err := entryDestPath(rootAbs, a.Entries[i].Path)
		if err != nil {
			return err
		}
		destPaths[i] = dest
	}

	if err := os.MkdirAll(rootAbs, fs.FileMode(cfg.dirMode)); err != nil {
		return fmt.Errorf("create destination %s: %w", destDir, err)
	}

	x.log().Info("extracting archive", "dest", destDir, "file_count", len(a.Entries))

	// Phase 2: write. Duplicate destinations force serial writes so
	// the last-write-wins ordering holds. Comparison is over resolved
	// destination paths: distinct raw paths can alias the same file
	// ("a.txt" and "b/../a.txt").
	if cfg.workers >= 2 && !hasDuplicateDests(destPaths) {
		return x.writeParallel(ctx, a.Entries, destPaths)
	}
	return x.writeSerial(ctx, a.Entries, destPaths)
}

// extractor holds state for archive extraction.
type extractor struct {
	cfg    extractConfig
	logger *slog.Logger

	filesDone atomic.Uint64
	bytesDone atomic.Uint64
}

// log returns the logger, falling back to a discard logger if nil.
func (x *extractor) log() *slog.Logger {
	if x.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return x.logger
}

// report sends a progress event if a callback is configured.
func (x *extractor) report(path string, total int, size uint32) {
	if x.cfg.progress == nil {
		return
	}
	x.cfg.progress(ProgressEvent{
		Stage:      StageExtracting,
		Path:       path,
		FilesDone:  int(x.filesDone.Add(1)),
		FilesTotal: total,
		BytesDone:  x.bytesDone.Add(uint64(size)),
	})
}

func (x *extractor) writeSerial(ctx context.Context, entries []Entry, destPaths []string) error {
	for i := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := x.writeEntry(&entries[i], destPaths[i]); err != nil {
			return err
		}
		x.report(entries[i].Path, len(entries), entries[i].Size)
	}
	return nil
}

func (x *extractor) writeParallel(ctx context.Context, entries []Entry, destPaths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(x.cfg.workers)
	for i := range entries {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := x.writeEntry(&entries[i], destPaths[i]); err != nil {
				return err
			}
			x.report(entries[i].Path, len(entries), entries[i].Size)
			return nil
		})
	}
	return g.Wait()
}

// writeEntry writes one entry's content to destPath atomically: temp
// file in the final directory, then rename.
func (x *extractor) writeEntry(e *Entry, destPath string) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, fs.FileMode(x.cfg.dirMode)); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".dirsnap-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(e.Content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", e.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, fs.FileMode(x.cfg.fileMode)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename to %s: %w", destPath, err)
	}
	return nil
}

// hasDuplicateDests reports whether two entries resolve to the same
// destination file.
func hasDuplicateDests(destPaths []string) bool {
	seen := make(map[string]struct{}, len(destPaths))
	for _, dest := range destPaths {
		if _, ok := seen[dest]; ok {
			return true
		}
		seen[dest] = struct{}{}
	}
	return false
}
