package index

import (
	"fmt"
	"sort"
	"sync"
)

// Index is the in-memory mirror of remote resource metadata. Lookups by id
// and by resolved path are O(1); the snapshot is replaced wholesale by the
// syncer and patched incrementally by Reparent after a successful move.
//
// All methods are safe for concurrent use.
type Index struct {
	rootID   string
	rootName string

	mu       sync.RWMutex
	byID     map[string]Resource
	byPath   map[string]string   // full path -> id
	children map[string][]string // parent id -> child ids, unsorted
}

// New creates an empty index rooted at the given container id.
func New(rootID, rootName string) *Index {
	ix := &Index{rootID: rootID, rootName: rootName}
	ix.reset()

	return ix
}

// RootID returns the configured top-level container id.
func (ix *Index) RootID() string {
	return ix.rootID
}

func (ix *Index) reset() {
	ix.byID = map[string]Resource{
		ix.rootID: {ID: ix.rootID, Name: ix.rootName, Type: TypeFolder},
	}
	ix.byPath = make(map[string]string)
	ix.children = make(map[string][]string)
}

// Replace swaps the snapshot for the given resources. The root container is
// always present and need not be included. Resources with a path collision
// are rejected — the syncer disambiguates slugs before calling Replace.
func (ix *Index) Replace(resources []Resource) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.reset()

	for _, r := range resources {
		if r.ID == ix.rootID {
			continue
		}

		full := r.FullPath()
		if prev, dup := ix.byPath[full]; dup {
			ix.reset()
			return fmt.Errorf("index: path %q claimed by both %s and %s", full, prev, r.ID)
		}

		ix.byID[r.ID] = r
		ix.byPath[full] = r.ID
		ix.children[r.ParentID] = append(ix.children[r.ParentID], r.ID)
	}

	return nil
}

// GetMeta returns the metadata for id. An unknown id returns ok=false, not
// an error — callers treat that as "no such resource".
func (ix *Index) GetMeta(id string) (Resource, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	r, ok := ix.byID[id]

	return r, ok
}

// ByPath resolves a public path to the resource living there.
func (ix *Index) ByPath(path string) (Resource, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	id, ok := ix.byPath[path]
	if !ok {
		return Resource{}, false
	}

	return ix.byID[id], true
}

// Empty reports whether the index holds no resources beyond the root.
func (ix *Index) Empty() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return len(ix.byID) <= 1
}

// Resources returns a copy of every mirrored resource (excluding the root
// container), for persistence.
func (ix *Index) Resources() []Resource {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]Resource, 0, len(ix.byID)-1)

	for id, r := range ix.byID {
		if id == ix.rootID {
			continue
		}

		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Children returns the ids of a folder's direct children, ordered folders
// first, then by sort key, slug as tiebreak.
func (ix *Index) Children(parentID string) []Resource {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return ix.sortedChildren(parentID)
}

// sortedChildren must be called with at least a read lock held.
func (ix *Index) sortedChildren(parentID string) []Resource {
	ids := ix.children[parentID]

	out := make([]Resource, 0, len(ids))
	for _, id := range ids {
		out = append(out, ix.byID[id])
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]

		// Folders sort before non-folders among siblings.
		if (a.Type == TypeFolder) != (b.Type == TypeFolder) {
			return a.Type == TypeFolder
		}

		if a.SortKey != b.SortKey {
			return a.SortKey < b.SortKey
		}

		return a.Slug < b.Slug
	})

	return out
}

// Reparent moves a mirrored resource under a new parent and recomputes the
// resolved paths of the resource and every descendant. If the new location
// already has a resource with the same slug, the moved resource's slug is
// disambiguated with a numeric suffix, mirroring what the next full sync
// would produce.
func (ix *Index) Reparent(id, newParentID string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	r, ok := ix.byID[id]
	if !ok {
		return fmt.Errorf("index: unknown resource %s", id)
	}

	parent, ok := ix.byID[newParentID]
	if !ok {
		return fmt.Errorf("index: unknown parent %s", newParentID)
	}

	// Detach from the old parent's child list.
	old := ix.children[r.ParentID]
	for i, cid := range old {
		if cid == id {
			ix.children[r.ParentID] = append(old[:i:i], old[i+1:]...)
			break
		}
	}

	delete(ix.byPath, r.FullPath())

	newPath := parent.FullPath()

	// Keep the path invariant: at most one live resource per full path.
	slug := r.Slug
	for n := 2; ; n++ {
		if taken, dup := ix.byPath[newPath+"/"+slug]; !dup || taken == id {
			break
		}

		slug = fmt.Sprintf("%s-%d", r.Slug, n)
	}

	r.ParentID = newParentID
	r.Path = newPath
	r.Slug = slug
	ix.byID[id] = r
	ix.byPath[r.FullPath()] = id
	ix.children[newParentID] = append(ix.children[newParentID], id)

	ix.rebasePaths(id)

	return nil
}

// rebasePaths recomputes descendant paths under a moved node. Must be called
// with the write lock held.
func (ix *Index) rebasePaths(parentID string) {
	base := ix.byID[parentID].FullPath()

	for _, cid := range ix.children[parentID] {
		child := ix.byID[cid]

		delete(ix.byPath, child.FullPath())
		child.Path = base
		ix.byID[cid] = child
		ix.byPath[child.FullPath()] = cid

		ix.rebasePaths(cid)
	}
}
