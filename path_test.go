package dirsnap

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEntryPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"leading slash", "/etc/nginx", "etc/nginx"},
		{"trailing slash", "etc/nginx/", "etc/nginx"},
		{"both slashes", "/etc/nginx/", "etc/nginx"},
		{"empty string", "", "."},
		{"root slash", "/", "."},
		{"simple", "foo", "foo"},
		{"nested path", "/foo/bar/baz", "foo/bar/baz"},
		{"multiple leading slashes", "///etc/nginx", "etc/nginx"},
		{"internal double slashes", "etc//nginx", "etc/nginx"},
		{"only slashes", "///", "."},
		// Dot and dotdot segments survive normalization; the extractor
		// resolves and judges them.
		{"dotdot in middle", "a/../b", "a/../b"},
		{"dotdot at start", "../etc", "../etc"},
		{"dot in middle", "a/./b", "a/./b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeEntryPath(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEntryDestPath(t *testing.T) {
	t.Parallel()

	root, err := filepath.Abs(filepath.Join("testroot", "dest"))
	require.NoError(t, err)

	tests := []struct {
		name      string
		entryPath string
		want      string // relative to root, "" means rejected
	}{
		{"plain file", "file.txt", "file.txt"},
		{"nested file", "a/b/c.txt", "a/b/c.txt"},
		// Sloppy but contained paths are normalized before joining.
		{"doubled slashes", "a//b.txt", "a/b.txt"},
		{"leading slash", "/a/b.txt", "a/b.txt"},
		{"trailing slash", "a/b.txt/", "a/b.txt"},
		{"dot segment", "a/./b.txt", "a/b.txt"},
		{"internal dotdot staying inside", "a/../b.txt", "b.txt"},
		{"leading dotdot", "../malicious.js", ""},
		{"buried dotdot escape", "legitimate/../../malicious.js", ""},
		{"deep escape", "../../../../etc/passwd", ""},
		{"empty path", "", ""},
		{"only slashes", "///", ""},
		{"resolves to root", ".", ""},
		{"dotdot to root", "a/..", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := entryDestPath(root, tt.entryPath)
			if tt.want == "" {
				var perr *PathTraversalError
				require.ErrorAs(t, err, &perr)
				assert.Equal(t, tt.entryPath, perr.Path)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(root, filepath.FromSlash(tt.want)), got)
		})
	}
}
