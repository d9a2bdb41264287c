// Package pagecache caches rendered page HTML keyed by resolved public path.
// A move relocates an entry from the old path to the new one; a re-render
// supersedes in place. Missing content is a normal outcome, never an error.
package pagecache

import (
	"context"
	"time"
)

// Entry is one cached page. An empty HTML string means "no rendered content
// available" — the page is known but nothing can be served for it.
type Entry struct {
	// Path is the resolved public path the page is addressed by. Cache
	// keys are paths, not resource ids, because that is how pages are
	// addressed externally.
	Path string
	// FileID records which remote resource produced the HTML.
	FileID string
	// ModifiedAt is the last known update time of the rendered content.
	ModifiedAt time.Time
	HTML       string
}

// HasHTML reports whether the entry carries servable content.
func (e Entry) HasHTML() bool {
	return e.HTML != ""
}

// Store is the cache contract shared by the memory and sqlite backends.
//
// Add stores or overwrites the entry for its path; an existing entry at the
// same path is superseded. Get reports ok=false on a miss. Purge invalidates
// the entry at path as of the given timestamp: entries written after the
// timestamp are kept (last write wins), and purging an absent path is a
// no-op, not an error.
type Store interface {
	Add(ctx context.Context, entry Entry) error
	Get(ctx context.Context, path string) (Entry, bool, error)
	Purge(ctx context.Context, path string, modified time.Time) error
}
