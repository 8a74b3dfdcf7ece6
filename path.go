package dirsnap

import (
	"path/filepath"
	"strings"
)

// NormalizeEntryPath converts a user- or archive-provided path to the
// slash-separated relative form entries use: leading, trailing and
// doubled slashes are dropped, and a path with no segments left
// becomes ".". Dot and dot-dot segments are kept; the extractor
// resolves and judges them.
func NormalizeEntryPath(p string) string {
	segments := strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return "."
	}
	return strings.Join(segments, "/")
}

// entryDestPath resolves an entry path against the destination root
// and enforces containment: after normalization and resolving "." and
// ".." segments, the candidate must equal the root or be a descendant
// of it.
//
// This is a pure computation; it never touches the filesystem, so the
// extractor can vet every entry before writing a single byte. The
// check is lexical: it does not resolve symlinks that may already
// exist under the destination root.
func entryDestPath(rootAbs, entryPath string) (string, error) {
	if entryPath == "" {
		return "", &PathTraversalError{Path: entryPath}
	}

	// Join cleans the result, resolving dot and dot-dot segments
	// against the root.
	normalized := NormalizeEntryPath(entryPath)
	candidate := filepath.Join(rootAbs, filepath.FromSlash(normalized))

	if candidate != rootAbs && !strings.HasPrefix(candidate, rootAbs+string(filepath.Separator)) {
		return "", &PathTraversalError{Path: entryPath}
	}
	// An entry resolving to the root itself is not a writable file.
	if candidate == rootAbs {
		return "", &PathTraversalError{Path: entryPath}
	}
	return candidate, nil
}
