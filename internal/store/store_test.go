package store

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivewiki/drivewiki/internal/index"
	"github.com/drivewiki/drivewiki/internal/pagecache"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()

	s, err := Open(":memory:", slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestSaveAndLoadResources(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	snapshot := []index.Resource{
		{ID: "f-1", ParentID: "root", Path: "", Slug: "guides", Name: "Guides", SortKey: "guides", Type: index.TypeFolder, ModifiedAt: 100},
		{ID: "d-1", ParentID: "f-1", Path: "/guides", Slug: "setup", Name: "Setup", SortKey: "setup", Type: index.TypeDocument, ModifiedAt: 200},
	}

	require.NoError(t, s.SaveResources(ctx, snapshot))

	loaded, err := s.LoadResources(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)
}

func TestSaveResources_ReplacesPrevious(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveResources(ctx, []index.Resource{
		{ID: "old", ParentID: "root", Slug: "old", Name: "Old", SortKey: "old", Type: index.TypeDocument},
	}))
	require.NoError(t, s.SaveResources(ctx, []index.Resource{
		{ID: "new", ParentID: "root", Slug: "new", Name: "New", SortKey: "new", Type: index.TypeDocument},
	}))

	loaded, err := s.LoadResources(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "new", loaded[0].ID)
}

func TestLoadResources_EmptyMirror(t *testing.T) {
	s := newTestStore(t)

	loaded, err := s.LoadResources(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestPages_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := pagecache.Entry{
		Path:       "/guides/setup",
		FileID:     "d-1",
		ModifiedAt: time.Unix(5000, 0).UTC(),
		HTML:       "<h1>Setup</h1>",
	}

	require.NoError(t, s.Add(ctx, entry))

	got, ok, err := s.Get(ctx, "/guides/setup")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry, got)
}

func TestPages_MissIsNotError(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.Get(context.Background(), "/absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPages_AddSupersedes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, pagecache.Entry{Path: "/p", FileID: "f", ModifiedAt: time.Unix(1000, 0), HTML: "old"}))
	require.NoError(t, s.Add(ctx, pagecache.Entry{Path: "/p", FileID: "f", ModifiedAt: time.Unix(2000, 0), HTML: "new"}))

	got, ok, err := s.Get(ctx, "/p")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", got.HTML)
	assert.Equal(t, int64(2000), got.ModifiedAt.Unix())
}

func TestPages_NullHTML(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, pagecache.Entry{Path: "/p", FileID: "f", ModifiedAt: time.Unix(1000, 0)}))

	got, ok, err := s.Get(ctx, "/p")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, got.HasHTML(), "entry exists but carries no content")
}

func TestPages_Purge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, pagecache.Entry{Path: "/p", FileID: "f", ModifiedAt: time.Unix(1000, 0), HTML: "x"}))
	require.NoError(t, s.Purge(ctx, "/p", time.Unix(1000, 0)))

	_, ok, err := s.Get(ctx, "/p")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPages_PurgeAbsentIsNoop(t *testing.T) {
	s := newTestStore(t)

	assert.NoError(t, s.Purge(context.Background(), "/never", time.Now()))
}

func TestPages_PurgeKeepsNewerWrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, pagecache.Entry{Path: "/p", FileID: "f", ModifiedAt: time.Unix(3000, 0), HTML: "fresh"}))
	require.NoError(t, s.Purge(ctx, "/p", time.Unix(2000, 0)))

	got, ok, err := s.Get(ctx, "/p")
	require.NoError(t, err)
	require.True(t, ok, "purge must not clobber a newer entry")
	assert.Equal(t, "fresh", got.HTML)
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/site.db"

	s1, err := Open(path, slog.Default())
	require.NoError(t, err)
	require.NoError(t, s1.SaveResources(context.Background(), []index.Resource{
		{ID: "r", ParentID: "root", Slug: "r", Name: "R", SortKey: "r", Type: index.TypeDocument},
	}))
	require.NoError(t, s1.Close())

	// Reopen: migrations are a no-op, data survives.
	s2, err := Open(path, slog.Default())
	require.NoError(t, err)
	defer s2.Close()

	loaded, err := s2.LoadResources(context.Background())
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}
