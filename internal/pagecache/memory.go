package pagecache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memory is a bounded in-process cache backend. Least-recently-used pages
// are evicted when the bound is hit; eviction is indistinguishable from a
// purge to callers, which re-render on miss.
type Memory struct {
	entries *lru.Cache[string, Entry]
}

// NewMemory creates a Memory cache holding at most maxEntries pages.
func NewMemory(maxEntries int) (*Memory, error) {
	entries, err := lru.New[string, Entry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("pagecache: creating lru: %w", err)
	}

	return &Memory{entries: entries}, nil
}

// Add stores or overwrites the entry for its path.
func (m *Memory) Add(_ context.Context, entry Entry) error {
	m.entries.Add(entry.Path, entry)

	return nil
}

// Get returns the entry cached at path, if any.
func (m *Memory) Get(_ context.Context, path string) (Entry, bool, error) {
	entry, ok := m.entries.Get(path)

	return entry, ok, nil
}

// Purge drops the entry at path unless it was written after the given
// timestamp. Purging an absent path is a no-op.
func (m *Memory) Purge(_ context.Context, path string, modified time.Time) error {
	entry, ok := m.entries.Peek(path)
	if !ok {
		return nil
	}

	if entry.ModifiedAt.After(modified) {
		return nil
	}

	m.entries.Remove(path)

	return nil
}

// Len returns the number of live entries.
func (m *Memory) Len() int {
	return m.entries.Len()
}
