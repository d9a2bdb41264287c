package index

import (
	"context"
	"fmt"
)

// Folder is one node of the navigation tree. Leaf (non-folder) resources
// never appear; Children is non-nil at every depth, even when empty.
type Folder struct {
	ID         string    `json:"id"`
	PrettyName string    `json:"prettyName"`
	Children   []*Folder `json:"children"`
}

// Loader populates the index from the remote store. The syncer implements it.
type Loader interface {
	Refresh(ctx context.Context) error
}

// TreeBuilder derives the folders-only tree for navigation and
// destination-picking. The first call may hit the remote store through the
// loader when the index has not been populated yet.
type TreeBuilder struct {
	idx    *Index
	loader Loader
}

// NewTreeBuilder creates a TreeBuilder over the given index. loader may be
// nil, in which case an empty index yields a childless root.
func NewTreeBuilder(idx *Index, loader Loader) *TreeBuilder {
	return &TreeBuilder{idx: idx, loader: loader}
}

// GetFolders returns the folder tree as a single-element slice: exactly one
// root whose id is the configured container id.
func (b *TreeBuilder) GetFolders(ctx context.Context) ([]*Folder, error) {
	if b.idx.Empty() && b.loader != nil {
		if err := b.loader.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("index: populating folder tree: %w", err)
		}
	}

	root := &Folder{
		ID:         b.idx.rootID,
		PrettyName: b.idx.rootName,
		Children:   b.buildChildren(b.idx.rootID),
	}

	return []*Folder{root}, nil
}

func (b *TreeBuilder) buildChildren(parentID string) []*Folder {
	children := make([]*Folder, 0)

	for _, r := range b.idx.Children(parentID) {
		if r.Type != TypeFolder {
			continue
		}

		children = append(children, &Folder{
			ID:         r.ID,
			PrettyName: r.Name,
			Children:   b.buildChildren(r.ID),
		})
	}

	return children
}
