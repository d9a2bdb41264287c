package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/drivewiki/drivewiki/internal/pagecache"
)

// Add stores or overwrites the page entry for its path. An empty HTML string
// is persisted as NULL, matching "no rendered content available".
func (s *SQLite) Add(ctx context.Context, entry pagecache.Entry) error {
	html := sql.NullString{String: entry.HTML, Valid: entry.HTML != ""}

	_, err := s.pageStmts.upsert.ExecContext(ctx,
		entry.Path, entry.FileID, entry.ModifiedAt.Unix(), html)
	if err != nil {
		return fmt.Errorf("store: caching page %s: %w", entry.Path, err)
	}

	return nil
}

// Get returns the page cached at path. A miss reports ok=false with no error.
func (s *SQLite) Get(ctx context.Context, path string) (pagecache.Entry, bool, error) {
	var (
		fileID   string
		modified int64
		html     sql.NullString
	)

	err := s.pageStmts.get.QueryRowContext(ctx, path).Scan(&fileID, &modified, &html)
	if errors.Is(err, sql.ErrNoRows) {
		return pagecache.Entry{}, false, nil
	}

	if err != nil {
		return pagecache.Entry{}, false, fmt.Errorf("store: reading page %s: %w", path, err)
	}

	return pagecache.Entry{
		Path:       path,
		FileID:     fileID,
		ModifiedAt: time.Unix(modified, 0).UTC(),
		HTML:       html.String,
	}, true, nil
}

// Purge deletes the entry at path unless it was written after the given
// timestamp. Purging an absent path is a no-op.
func (s *SQLite) Purge(ctx context.Context, path string, modified time.Time) error {
	if _, err := s.pageStmts.purge.ExecContext(ctx, path, modified.Unix()); err != nil {
		return fmt.Errorf("store: purging page %s: %w", path, err)
	}

	return nil
}
