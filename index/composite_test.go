package index_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/fwojciec/xmlidx"
	"github.com/fwojciec/xmlidx/etree"
	"github.com/fwojciec/xmlidx/index"
	"github.com/fwojciec/xmlidx/memory"
	"github.com/fwojciec/xmlidx/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fragment(t *testing.T, s string) *xmlidx.Fragment {
	t.Helper()
	f, err := xmlidx.ParseFragment(s)
	require.NoError(t, err)
	return f
}

func sourceOf(m map[string]*xmlidx.Fragment) *mock.ContentSource {
	return &mock.ContentSource{
		GetContentFn: func(ctx context.Context, key string) (*xmlidx.Fragment, error) {
			return m[key], nil
		},
	}
}

func TestComposite_GetContent(t *testing.T) {
	t.Parallel()

	t.Run("primary wins when both hold the key", func(t *testing.T) {
		t.Parallel()

		primary := sourceOf(map[string]*xmlidx.Fragment{"K": fragment(t, "<v>m</v>")})
		secondary := sourceOf(map[string]*xmlidx.Fragment{"K": fragment(t, "<v>d</v>")})

		f, err := index.NewComposite(primary, secondary).GetContent(context.Background(), "K")
		require.NoError(t, err)
		assert.Equal(t, "m", f.Text())
	})

	t.Run("falls back to secondary", func(t *testing.T) {
		t.Parallel()

		primary := sourceOf(nil)
		secondary := sourceOf(map[string]*xmlidx.Fragment{"K": fragment(t, "<v>d</v>")})

		f, err := index.NewComposite(primary, secondary).GetContent(context.Background(), "K")
		require.NoError(t, err)
		assert.Equal(t, "d", f.Text())
	})

	t.Run("miss in both returns nil", func(t *testing.T) {
		t.Parallel()

		f, err := index.NewComposite(sourceOf(nil), sourceOf(nil)).GetContent(context.Background(), "K")
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("works without secondary", func(t *testing.T) {
		t.Parallel()

		f, err := index.NewComposite(sourceOf(nil), nil).GetContent(context.Background(), "K")
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("falls back when a memory document can no longer be read", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		rules, err := etree.CompileRules("@id", "/reflection/apis/api")
		require.NoError(t, err)
		mem, err := memory.NewSource(memory.Options{Rules: rules, CacheSize: 1})
		require.NoError(t, err)
		path := writeFile(t, t.TempDir(), "a.xml", api("K", "m"))
		require.NoError(t, mem.AddDocument(ctx, path, xmlidx.IngestOptions{}))
		require.NoError(t, os.Remove(path))
		stored := sourceOf(map[string]*xmlidx.Fragment{"K": fragment(t, "<v>d</v>")})

		f, err := index.NewComposite(mem, stored).GetContent(ctx, "K")
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, "d", f.Text())
	})

	t.Run("primary error is returned", func(t *testing.T) {
		t.Parallel()

		primary := &mock.ContentSource{
			GetContentFn: func(ctx context.Context, key string) (*xmlidx.Fragment, error) {
				return nil, errors.New("disk error")
			},
		}
		secondaryCalled := false
		secondary := &mock.ContentSource{
			GetContentFn: func(ctx context.Context, key string) (*xmlidx.Fragment, error) {
				secondaryCalled = true
				return nil, nil
			},
		}

		_, err := index.NewComposite(primary, secondary).GetContent(context.Background(), "K")
		assert.EqualError(t, err, "disk error")
		assert.False(t, secondaryCalled)
	})
}
