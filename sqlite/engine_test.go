package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/xmlidx"
	"github.com/fwojciec/xmlidx/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine(t *testing.T) {
	t.Parallel()

	t.Run("open without create fails for missing store", func(t *testing.T) {
		t.Parallel()

		e := sqlite.NewEngine()
		dir := filepath.Join(t.TempDir(), "store")

		assert.False(t, e.Exists(dir))
		_, err := e.Open(dir, false)
		assert.Equal(t, xmlidx.ENOTFOUND, xmlidx.ErrorCode(err))
	})

	t.Run("create then reopen keeps records", func(t *testing.T) {
		t.Parallel()

		e := sqlite.NewEngine()
		dir := filepath.Join(t.TempDir(), "store")
		ctx := context.Background()

		s, err := e.Open(dir, true)
		require.NoError(t, err)
		require.NoError(t, s.Put(ctx, []xmlidx.Record{{Key: "K", Value: "<a/>"}}))
		require.NoError(t, s.Close())
		assert.True(t, e.Exists(dir))

		s, err = e.Open(dir, false)
		require.NoError(t, err)
		defer s.Close()
		v, err := s.Get(ctx, "K")
		require.NoError(t, err)
		assert.Equal(t, "<a/>", v)
	})

	t.Run("remove deletes database files", func(t *testing.T) {
		t.Parallel()

		e := sqlite.NewEngine()
		dir := filepath.Join(t.TempDir(), "store")

		s, err := e.Open(dir, true)
		require.NoError(t, err)
		require.NoError(t, s.Close())

		require.NoError(t, e.Remove(dir))
		assert.False(t, e.Exists(dir))
		_, err = os.Stat(filepath.Join(dir, sqlite.FileName+"-wal"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("remove of missing store succeeds", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, sqlite.NewEngine().Remove(filepath.Join(t.TempDir(), "none")))
	})

	t.Run("name", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "sqlite", sqlite.NewEngine().Name())
	})
}
