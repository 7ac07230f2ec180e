package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/xmlidx/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Staged Store Directories
// A store is built in a temporary directory and published atomically.

func TestStoreDir_BeginCreatesEmptyTempDirectory(t *testing.T) {
	t.Parallel()

	// Given leftovers of an earlier failed build
	base := t.TempDir()
	dir := fs.NewStoreDir(filepath.Join(base, "refl"))
	touch(t, filepath.Join(dir.TempDir(), "stale.db"))

	// When I begin a build
	require.NoError(t, dir.Begin())

	// Then the temp directory exists and is empty
	entries, err := os.ReadDir(filepath.Join(base, "refl.tmp"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	// And the final directory does not exist yet
	_, err = os.Stat(filepath.Join(base, "refl"))
	assert.True(t, os.IsNotExist(err))
}

func TestStoreDir_CommitReplacesFinalDirectory(t *testing.T) {
	t.Parallel()

	// Given a published store and a new build
	base := t.TempDir()
	dir := fs.NewStoreDir(filepath.Join(base, "refl"))
	touch(t, filepath.Join(base, "refl", "old.db"))
	require.NoError(t, dir.Begin())
	touch(t, filepath.Join(dir.TempDir(), "new.db"))

	// When I commit
	require.NoError(t, dir.Commit())

	// Then the final directory holds only the new build
	_, err := os.Stat(filepath.Join(base, "refl", "new.db"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "refl", "old.db"))
	assert.True(t, os.IsNotExist(err))

	// And the temp directory is gone
	_, err = os.Stat(filepath.Join(base, "refl.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestStoreDir_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	dir := fs.NewStoreDir(filepath.Join(base, "refl"))
	require.NoError(t, dir.Begin())
	touch(t, filepath.Join(dir.TempDir(), "partial.db"))

	require.NoError(t, dir.Abort())

	_, err := os.Stat(dir.TempDir())
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dir.FinalDir())
	assert.True(t, os.IsNotExist(err))
}
