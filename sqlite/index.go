package sqlite

import (
	"context"
	"database/sql"
	"sync"

	"github.com/fwojciec/zealgen"
)

// Compile-time interface verification.
var _ zealgen.Index = (*Index)(nil)

// Index implements zealgen.Index on the searchIndex table.
//
// Entries are written inside a single transaction that is committed by
// Flush or Close, so a crawl with thousands of symbols pays for one journal
// sync instead of one per row. Rows keep their insertion order through the
// INTEGER PRIMARY KEY.
type Index struct {
	db *DB

	mu sync.Mutex
	tx *sql.Tx
}

// NewIndex creates an Index on an open DB. Closing the Index closes the DB.
func NewIndex(db *DB) *Index {
	return &Index{db: db}
}

// OpenIndex opens (creating if needed) the index database at path.
func OpenIndex(path string) (*Index, error) {
	db := NewDB(path)
	if err := db.Open(); err != nil {
		return nil, zealgen.Errorf(zealgen.EIO, "opening index %s: %w", path, err)
	}
	return NewIndex(db), nil
}

// AddEntry appends a row to the search index.
func (i *Index) AddEntry(ctx context.Context, entry *zealgen.IndexEntry) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.tx == nil {
		// The transaction outlives this call; canceling ctx must not roll
		// back rows that Flush or Close will commit later.
		tx, err := i.db.BeginTx(context.WithoutCancel(ctx))
		if err != nil {
			return zealgen.Errorf(zealgen.EIO, "beginning index transaction: %w", err)
		}
		i.tx = tx
	}

	if _, err := i.tx.ExecContext(ctx,
		`INSERT INTO searchIndex (name, type, path) VALUES (?, ?, ?)`,
		entry.Name, entry.Type, entry.Path,
	); err != nil {
		return zealgen.Errorf(zealgen.EIO, "inserting index entry %q: %w", entry.Name, err)
	}
	return nil
}

// Flush commits the entries added so far.
func (i *Index) Flush() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.flush()
}

func (i *Index) flush() error {
	if i.tx == nil {
		return nil
	}
	tx := i.tx
	i.tx = nil
	if err := tx.Commit(); err != nil {
		return zealgen.Errorf(zealgen.EIO, "committing index: %w", err)
	}
	return nil
}

// Entries returns every row in insertion order. Pending entries are
// committed first.
func (i *Index) Entries(ctx context.Context) ([]*zealgen.IndexEntry, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.flush(); err != nil {
		return nil, err
	}

	rows, err := i.db.QueryContext(ctx, `SELECT name, type, path FROM searchIndex ORDER BY id`)
	if err != nil {
		return nil, zealgen.Errorf(zealgen.EIO, "querying index: %w", err)
	}
	defer rows.Close()

	var entries []*zealgen.IndexEntry
	for rows.Next() {
		var e zealgen.IndexEntry
		if err := rows.Scan(&e.Name, &e.Type, &e.Path); err != nil {
			return nil, zealgen.Errorf(zealgen.EIO, "scanning index row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, zealgen.Errorf(zealgen.EIO, "reading index: %w", err)
	}
	return entries, nil
}

// Close commits pending entries and closes the database.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	flushErr := i.flush()
	if err := i.db.Close(); err != nil {
		return zealgen.Errorf(zealgen.EIO, "closing index: %w", err)
	}
	return flushErr
}
