package index

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFolders_SingleRootFoldersOnly(t *testing.T) {
	ix := newTestIndex(t)
	b := NewTreeBuilder(ix, nil)

	roots, err := b.GetFolders(context.Background())
	require.NoError(t, err)
	require.Len(t, roots, 1, "exactly one root per snapshot")

	root := roots[0]
	assert.Equal(t, "root", root.ID)
	assert.Equal(t, "Library", root.PrettyName)

	// Only guides is a folder at the top level; readme is a document.
	require.Len(t, root.Children, 1)
	assert.Equal(t, "f-guides", root.Children[0].ID)

	// archive nests under guides; setup (document) does not appear.
	require.Len(t, root.Children[0].Children, 1)
	assert.Equal(t, "f-archive", root.Children[0].Children[0].ID)
	assert.NotNil(t, root.Children[0].Children[0].Children, "children arrays exist at every depth")
	assert.Empty(t, root.Children[0].Children[0].Children)
}

func TestGetFolders_Idempotent(t *testing.T) {
	ix := newTestIndex(t)
	b := NewTreeBuilder(ix, nil)

	first, err := b.GetFolders(context.Background())
	require.NoError(t, err)

	second, err := b.GetFolders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second, "no intervening mutation, structurally identical trees")
}

// recordingLoader counts Refresh calls and populates the index.
type recordingLoader struct {
	ix    *Index
	calls int
	err   error
}

func (l *recordingLoader) Refresh(_ context.Context) error {
	l.calls++
	if l.err != nil {
		return l.err
	}

	return l.ix.Replace(testResources())
}

func TestGetFolders_LazyLoadOnce(t *testing.T) {
	ix := New("root", "Library")
	loader := &recordingLoader{ix: ix}
	b := NewTreeBuilder(ix, loader)

	roots, err := b.GetFolders(context.Background())
	require.NoError(t, err)
	assert.Len(t, roots[0].Children, 1)
	assert.Equal(t, 1, loader.calls)

	// Populated now — no second remote round trip.
	_, err = b.GetFolders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, loader.calls)
}

func TestGetFolders_LoaderError(t *testing.T) {
	ix := New("root", "Library")
	loader := &recordingLoader{ix: ix, err: errors.New("remote down")}
	b := NewTreeBuilder(ix, loader)

	_, err := b.GetFolders(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote down")
}

func TestGetFolders_EmptyIndexNoLoader(t *testing.T) {
	ix := New("root", "Library")
	b := NewTreeBuilder(ix, nil)

	roots, err := b.GetFolders(context.Background())
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Empty(t, roots[0].Children)
	assert.NotNil(t, roots[0].Children)
}
