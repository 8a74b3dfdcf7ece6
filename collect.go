package dirsnap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/dirsnap/dirsnap/internal/globmatch"
)

// Collect builds an in-memory archive from the contents of dir.
//
// The directory is walked recursively; files surviving the
// include/exclude filters are read fully into memory, in walk order.
// Directories themselves are never recorded and empty directories are
// not preserved. Each entry's size is taken from the bytes actually
// read, its MIME type is derived from the file extension with a
// content-sniffing fallback, and its path is recorded relative to dir
// with forward-slash separators on every platform.
//
// Collect fails with an error satisfying errors.Is(err, fs.ErrNotExist)
// when dir does not exist and with ErrNotDirectory when it is not a
// directory.
//
// The context can be used for cancellation of long-running collection.
func Collect(ctx context.Context, dir string, opts ...CollectOption) (*Archive, error) {
	cfg := collectConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.excludeSet {
		cfg.exclude = DefaultExcludes
	}
	maxFiles := cfg.maxFiles
	if maxFiles == 0 {
		maxFiles = DefaultMaxFiles
	}

	c := &collector{cfg: cfg, logger: cfg.logger}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	c.log().Info("collecting directory", "dir", dir,
		"include", cfg.include, "exclude", cfg.exclude)
	c.report(ProgressEvent{Stage: StageEnumerating})

	paths, err := globmatch.Match(os.DirFS(dir), cfg.include, cfg.exclude)
	if err != nil {
		return nil, fmt.Errorf("match files in %s: %w", dir, err)
	}
	if maxFiles > 0 && len(paths) > maxFiles {
		return nil, fmt.Errorf("%w: %d files, limit %d", ErrTooManyFiles, len(paths), maxFiles)
	}

	entries, err := c.readAll(ctx, dir, paths)
	if err != nil {
		return nil, err
	}

	c.log().Debug("collection complete", "file_count", len(entries))
	return &Archive{Version: FormatVersion, Entries: entries}, nil
}

// collector holds state for archive collection.
type collector struct {
	cfg    collectConfig
	logger *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (c *collector) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.logger
}

// report sends a progress event if a callback is configured.
func (c *collector) report(ev ProgressEvent) {
	if c.cfg.progress == nil {
		return
	}
	c.cfg.progress(ev)
}

// readAll reads every matched file into an Entry. Reads may run in
// parallel, but entries land in a slice indexed by walk position, so
// the archive's entry order is always the discovery order.
func (c *collector) readAll(ctx context.Context, dir string, paths []string) ([]Entry, error) {
	entries := make([]Entry, len(paths))

	var filesDone, bytesDone atomic.Uint64
	read := func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		relPath := paths[i]
		entry, err := readEntry(dir, relPath)
		if err != nil {
			return err
		}
		entries[i] = entry
		c.report(ProgressEvent{
			Stage:      StageReading,
			Path:       relPath,
			FilesDone:  int(filesDone.Add(1)),
			FilesTotal: len(paths),
			BytesDone:  bytesDone.Add(uint64(entry.Size)),
		})
		return nil
	}

	if c.cfg.readWorkers < 2 {
		for i := range paths {
			if err := read(i); err != nil {
				return nil, err
			}
		}
		return entries, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.readWorkers)
	for i := range paths {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return read(i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// readEntry reads one file and derives its metadata. Size comes from
// the bytes read, not a separate stat, so a file changing size during
// collection cannot desynchronize the entry.
func readEntry(dir, relPath string) (Entry, error) {
	content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(relPath)))
	if err != nil {
		return Entry{}, fmt.Errorf("read %s: %w", relPath, err)
	}
	if uint64(len(content)) > math.MaxUint32 {
		return Entry{}, fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, relPath, len(content))
	}
	return NewEntry(relPath, detectMIME(relPath, content), content), nil
}

// detectMIME derives a MIME type for a file: extension lookup first,
// then content sniffing. Never fails; undetectable content gets
// application/octet-stream.
func detectMIME(relPath string, content []byte) string {
	if ext := path.Ext(relPath); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return stripMIMEParams(t)
		}
	}
	if len(content) > 0 {
		return stripMIMEParams(mimetype.Detect(content).String())
	}
	return DefaultMIMEType
}

// stripMIMEParams drops parameters ("; charset=...") so entries store
// the bare type regardless of which detection path produced it.
func stripMIMEParams(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}
