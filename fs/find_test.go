package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/xmlidx"
	"github.com/fwojciec/xmlidx/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: File Discovery
// Data locations name a base directory, a file pattern and a recurse flag.

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("<x/>"), 0644))
}

func TestFindFiles_TopLevelOnly(t *testing.T) {
	t.Parallel()

	// Given a tree root/{a.xml, b.txt, sub/b.xml}
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.xml"))
	touch(t, filepath.Join(root, "b.txt"))
	touch(t, filepath.Join(root, "sub", "b.xml"))

	// When I search without recursion
	files, err := fs.FindFiles(root, "*.xml", false)

	// Then only the top-level match is returned
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.xml")}, files)
}

func TestFindFiles_RecursesToAnyDepth(t *testing.T) {
	t.Parallel()

	// Given a tree with matches three levels deep
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.xml"))
	touch(t, filepath.Join(root, "sub", "b.xml"))
	touch(t, filepath.Join(root, "sub", "deeper", "c.xml"))
	touch(t, filepath.Join(root, "other", "d.xml"))

	// When I search recursively
	files, err := fs.FindFiles(root, "*.xml", true)

	// Then every level contributes, parents before children
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.xml"),
		filepath.Join(root, "other", "d.xml"),
		filepath.Join(root, "sub", "b.xml"),
		filepath.Join(root, "sub", "deeper", "c.xml"),
	}, files)
}

func TestFindFiles_SkipsDirectoriesMatchingPattern(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.xml"), 0755))
	touch(t, filepath.Join(root, "a.xml"))

	files, err := fs.FindFiles(root, "*.xml", false)

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.xml")}, files)
}

func TestFindFiles_MissingBaseYieldsNothing(t *testing.T) {
	t.Parallel()

	files, err := fs.FindFiles(filepath.Join(t.TempDir(), "missing"), "*.xml", true)

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindFiles_RejectsBadPattern(t *testing.T) {
	t.Parallel()

	_, err := fs.FindFiles(t.TempDir(), "[", false)
	require.Error(t, err)
	assert.Equal(t, xmlidx.EINVALID, xmlidx.ErrorCode(err))

	_, err = fs.FindFiles(t.TempDir(), "", false)
	require.Error(t, err)
	assert.Equal(t, xmlidx.EINVALID, xmlidx.ErrorCode(err))
}
