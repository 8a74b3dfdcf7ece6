package dirsnap

import "log/slog"

// DefaultMaxFiles is the default limit used when no MaxFiles option is set.
const DefaultMaxFiles = 200_000

// DefaultExcludes are the exclude patterns applied when no exclude
// option is given: version-control metadata and dependency caches.
var DefaultExcludes = []string{
	"**/.git",
	"**/.hg",
	"**/.svn",
	"**/node_modules",
	"**/__pycache__",
}

// collectConfig holds configuration for archive collection.
type collectConfig struct {
	include     []string
	exclude     []string
	excludeSet  bool
	maxFiles    int
	readWorkers int
	logger      *slog.Logger
	progress    ProgressFunc
}

// CollectOption configures archive collection.
type CollectOption func(*collectConfig)

// CollectWithInclude restricts collection to files matching at least
// one of the given doublestar patterns. Without this option every file
// is included.
func CollectWithInclude(patterns ...string) CollectOption {
	return func(cfg *collectConfig) {
		cfg.include = append(cfg.include, patterns...)
	}
}

// CollectWithExclude replaces DefaultExcludes with the given doublestar
// patterns. Pass no patterns to disable excludes entirely. Patterns
// matching a directory prune the whole subtree.
func CollectWithExclude(patterns ...string) CollectOption {
	return func(cfg *collectConfig) {
		cfg.exclude = patterns
		cfg.excludeSet = true
	}
}

// CollectWithMaxFiles limits the number of files collected. Zero uses
// DefaultMaxFiles. Negative means no limit.
func CollectWithMaxFiles(n int) CollectOption {
	return func(cfg *collectConfig) {
		cfg.maxFiles = n
	}
}

// CollectWithReadWorkers sets the number of concurrent file reads.
// Values < 2 read serially. Entry order is the walk order regardless
// of worker count.
func CollectWithReadWorkers(n int) CollectOption {
	return func(cfg *collectConfig) {
		cfg.readWorkers = n
	}
}

// CollectWithLogger sets the logger for collection. Nil discards logs.
func CollectWithLogger(logger *slog.Logger) CollectOption {
	return func(cfg *collectConfig) {
		cfg.logger = logger
	}
}

// CollectWithProgress registers a callback for progress events. The
// callback may be invoked concurrently when read workers are enabled.
func CollectWithProgress(fn ProgressFunc) CollectOption {
	return func(cfg *collectConfig) {
		cfg.progress = fn
	}
}
