package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/zealgen"
	"github.com/fwojciec/zealgen/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_AddEntry(t *testing.T) {
	t.Parallel()

	t.Run("preserves insertion order", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewIndex(setupTestDB(t))
		ctx := context.Background()

		want := []*zealgen.IndexEntry{
			{Name: "zeta", Type: zealgen.KindFunction, Path: "api.html#zeta"},
			{Name: "alpha", Type: zealgen.KindClass, Path: "api.html#alpha"},
			{Name: "Intro", Type: zealgen.KindGuide, Path: "intro.html"},
		}
		for _, e := range want {
			require.NoError(t, idx.AddEntry(ctx, e))
		}

		got, err := idx.Entries(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("allows duplicate rows", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewIndex(setupTestDB(t))
		ctx := context.Background()

		e := &zealgen.IndexEntry{Name: "run", Type: zealgen.KindMethod, Path: "a.html#run"}
		require.NoError(t, idx.AddEntry(ctx, e))
		require.NoError(t, idx.AddEntry(ctx, e))

		got, err := idx.Entries(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("continues after entries are read", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewIndex(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, idx.AddEntry(ctx, &zealgen.IndexEntry{Name: "a", Type: zealgen.KindGuide, Path: "a.html"}))
		_, err := idx.Entries(ctx)
		require.NoError(t, err)
		require.NoError(t, idx.AddEntry(ctx, &zealgen.IndexEntry{Name: "b", Type: zealgen.KindGuide, Path: "b.html"}))

		got, err := idx.Entries(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestIndex_Close(t *testing.T) {
	t.Parallel()

	t.Run("commits pending entries", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "docSet.dsidx")
		ctx := context.Background()

		idx, err := sqlite.OpenIndex(path)
		require.NoError(t, err)
		require.NoError(t, idx.AddEntry(ctx, &zealgen.IndexEntry{Name: "a", Type: zealgen.KindGuide, Path: "a.html"}))
		require.NoError(t, idx.Close())

		reopened, err := sqlite.OpenIndex(path)
		require.NoError(t, err)
		defer reopened.Close()

		got, err := reopened.Entries(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a.html", got[0].Path)
	})

	t.Run("commits entries after their context is canceled", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "docSet.dsidx")

		idx, err := sqlite.OpenIndex(path)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, idx.AddEntry(ctx, &zealgen.IndexEntry{Name: "a", Type: zealgen.KindGuide, Path: "a.html"}))
		cancel()
		require.NoError(t, idx.Close())

		reopened, err := sqlite.OpenIndex(path)
		require.NoError(t, err)
		defer reopened.Close()

		got, err := reopened.Entries(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []*zealgen.IndexEntry{{Name: "a", Type: zealgen.KindGuide, Path: "a.html"}}, got)
	})

	t.Run("open reports EIO for unwritable path", func(t *testing.T) {
		t.Parallel()

		_, err := sqlite.OpenIndex("/nonexistent/dir/docSet.dsidx")
		require.Error(t, err)
		assert.Equal(t, zealgen.EIO, zealgen.ErrorCode(err))
	})
}
