// Package globmatch resolves include/exclude glob patterns against a
// directory tree, producing the ordered file list the collector
// archives. Patterns use doublestar syntax, so "**" crosses directory
// boundaries.
package globmatch

import (
	"io/fs"

	"github.com/bmatcuk/doublestar/v4"
)

// Match walks fsys and returns the slash-separated relative paths of
// all regular files that match at least one include pattern and no
// exclude pattern. An empty include list matches everything. Paths are
// returned in walk order (lexical within each directory), which is the
// archive's entry order.
//
// Exclude patterns are also applied to directories: a directory whose
// path matches an exclude pattern is skipped entirely, so its contents
// are never read.
func Match(fsys fs.FS, include, exclude []string) ([]string, error) {
	var paths []string

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == "." {
			return nil
		}
		if d.IsDir() {
			if matchAny(exclude, path) || matchAny(exclude, path+"/") {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if len(include) > 0 && !matchAny(include, path) {
			return nil
		}
		if matchAny(exclude, path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// matchAny reports whether path matches any of the patterns. Malformed
// patterns never match; pattern validation is the caller's concern.
func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
