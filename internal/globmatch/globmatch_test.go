package globmatch

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"included.txt":        &fstest.MapFile{Data: []byte("in")},
		"excluded.txt":        &fstest.MapFile{Data: []byte("out")},
		"notes.md":            &fstest.MapFile{Data: []byte("md")},
		"sub/included.txt":    &fstest.MapFile{Data: []byte("in")},
		"sub/excluded.txt":    &fstest.MapFile{Data: []byte("out")},
		"sub/deep/leaf.txt":   &fstest.MapFile{Data: []byte("in")},
		".git/HEAD":           &fstest.MapFile{Data: []byte("ref")},
		".git/objects/ab/cd":  &fstest.MapFile{Data: []byte("blob")},
		"node_modules/x/y.js": &fstest.MapFile{Data: []byte("js")},
	}
}

func TestMatchEverythingByDefault(t *testing.T) {
	t.Parallel()

	paths, err := Match(testFS(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, paths, 9)
}

func TestMatchIncludeExclude(t *testing.T) {
	t.Parallel()

	paths, err := Match(testFS(), []string{"**/*.txt"}, []string{"**/excluded.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"included.txt",
		"sub/deep/leaf.txt",
		"sub/included.txt",
	}, paths)
}

func TestMatchExcludePrunesDirectories(t *testing.T) {
	t.Parallel()

	paths, err := Match(testFS(), nil, []string{"**/.git", "**/node_modules"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"excluded.txt",
		"included.txt",
		"notes.md",
		"sub/deep/leaf.txt",
		"sub/excluded.txt",
		"sub/included.txt",
	}, paths)
}

func TestMatchWalkOrderIsLexical(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"b.txt":     &fstest.MapFile{Data: []byte("b")},
		"a/x.txt":   &fstest.MapFile{Data: []byte("x")},
		"a/y.txt":   &fstest.MapFile{Data: []byte("y")},
		"c/z/q.txt": &fstest.MapFile{Data: []byte("q")},
	}
	paths, err := Match(fsys, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/x.txt", "a/y.txt", "b.txt", "c/z/q.txt"}, paths)
}

func TestMatchEmptyInclude(t *testing.T) {
	t.Parallel()

	// An include list that matches nothing yields an empty, non-error
	// result.
	paths, err := Match(testFS(), []string{"**/*.nope"}, nil)
	require.NoError(t, err)
	assert.Empty(t, paths)
}
