package dirsnap

import "log/slog"

// extractConfig holds configuration for archive extraction.
type extractConfig struct {
	workers  int
	dirMode  uint32
	fileMode uint32
	logger   *slog.Logger
	progress ProgressFunc
}

// ExtractOption configures archive extraction.
type ExtractOption func(*extractConfig)

// ExtractWithWorkers sets the number of concurrent file writes.
// Values < 2 write serially. Per-entry results are independent of
// worker count; only duplicate-path archives are order sensitive and
// those are written serially regardless (last write wins).
func ExtractWithWorkers(n int) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.workers = n
	}
}

// ExtractWithDirMode sets the permission bits for created directories
// (default 0o750).
func ExtractWithDirMode(mode uint32) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.dirMode = mode
	}
}

// ExtractWithFileMode sets the permission bits for written files
// (default 0o644, subject to umask).
func ExtractWithFileMode(mode uint32) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.fileMode = mode
	}
}

// ExtractWithLogger sets the logger for extraction. Nil discards logs.
func ExtractWithLogger(logger *slog.Logger) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.logger = logger
	}
}

// ExtractWithProgress registers a callback for progress events. The
// callback may be invoked concurrently when workers are enabled.
func ExtractWithProgress(fn ProgressFunc) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.progress = fn
	}
}
