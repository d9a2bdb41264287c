package pagecache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(path, html string, modified int64) Entry {
	return Entry{
		Path:       path,
		FileID:     "file-" + path,
		ModifiedAt: time.Unix(modified, 0),
		HTML:       html,
	}
}

func TestMemory_AddGet(t *testing.T) {
	m, err := NewMemory(8)
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, m.Add(ctx, testEntry("/guides/setup", "<p>hi</p>", 1000)))

	got, ok, err := m.Get(ctx, "/guides/setup")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<p>hi</p>", got.HTML)
	assert.True(t, got.HasHTML())
}

func TestMemory_MissIsNotError(t *testing.T) {
	m, err := NewMemory(8)
	require.NoError(t, err)

	_, ok, err := m.Get(context.Background(), "/absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_AddSupersedes(t *testing.T) {
	m, err := NewMemory(8)
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, m.Add(ctx, testEntry("/p", "old", 1000)))
	require.NoError(t, m.Add(ctx, testEntry("/p", "new", 2000)))

	got, ok, _ := m.Get(ctx, "/p")
	require.True(t, ok)
	assert.Equal(t, "new", got.HTML)
	assert.Equal(t, 1, m.Len(), "at most one live entry per path")
}

func TestMemory_Purge(t *testing.T) {
	m, err := NewMemory(8)
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, m.Add(ctx, testEntry("/p", "html", 1000)))
	require.NoError(t, m.Purge(ctx, "/p", time.Unix(1000, 0)))

	_, ok, _ := m.Get(ctx, "/p")
	assert.False(t, ok)
}

func TestMemory_PurgeAbsentIsNoop(t *testing.T) {
	m, err := NewMemory(8)
	require.NoError(t, err)

	assert.NoError(t, m.Purge(context.Background(), "/never-cached", time.Now()))
}

func TestMemory_PurgeKeepsNewerWrite(t *testing.T) {
	m, err := NewMemory(8)
	require.NoError(t, err)

	ctx := context.Background()

	// A concurrent writer re-added the page after the purge timestamp.
	require.NoError(t, m.Add(ctx, testEntry("/p", "fresh", 3000)))
	require.NoError(t, m.Purge(ctx, "/p", time.Unix(2000, 0)))

	got, ok, _ := m.Get(ctx, "/p")
	require.True(t, ok, "purge must not clobber a newer entry")
	assert.Equal(t, "fresh", got.HTML)
}

func TestMemory_EvictsAtBound(t *testing.T) {
	m, err := NewMemory(4)
	require.NoError(t, err)

	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, m.Add(ctx, testEntry(fmt.Sprintf("/p-%d", i), "x", int64(i))))
	}

	assert.Equal(t, 4, m.Len())

	// Most recent entries survive.
	_, ok, _ := m.Get(ctx, "/p-9")
	assert.True(t, ok)
}

func TestEntry_HasHTML(t *testing.T) {
	assert.False(t, Entry{}.HasHTML())
	assert.True(t, Entry{HTML: "<p></p>"}.HasHTML())
}
