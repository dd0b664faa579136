package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/zealgen"
	"github.com/fwojciec/zealgen/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkIndexInserts compares autocommit inserts with the Index's single
// transaction. This simulates a crawl workload: many symbols across many pages.
func BenchmarkIndexInserts(b *testing.B) {
	b.Run("autocommit", func(b *testing.B) {
		benchmarkInserts(b, false)
	})

	b.Run("transaction", func(b *testing.B) {
		benchmarkInserts(b, true)
	})
}

func benchmarkInserts(b *testing.B, batched bool) {
	b.Helper()

	const entriesPerIteration = 100
	ctx := context.Background()

	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.dsidx"))
	require.NoError(b, db.Open())
	idx := sqlite.NewIndex(db)
	defer idx.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := 0; j < entriesPerIteration; j++ {
			entry := &zealgen.IndexEntry{
				Name: fmt.Sprintf("symbol_%d_%d", i, j),
				Type: zealgen.KindFunction,
				Path: fmt.Sprintf("page_%d.html#symbol_%d", i, j),
			}
			if batched {
				require.NoError(b, idx.AddEntry(ctx, entry))
				continue
			}
			_, err := db.ExecContext(ctx,
				"INSERT INTO searchIndex (name, type, path) VALUES (?, ?, ?)",
				entry.Name, entry.Type, entry.Path)
			require.NoError(b, err)
		}
	}
	b.StopTimer()
	require.NoError(b, idx.Flush())
}
