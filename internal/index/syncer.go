package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/drivewiki/drivewiki/internal/drive"
)

// defaultListConcurrency bounds parallel folder listings during a refresh.
const defaultListConcurrency = 4

// Lister lists the direct children of a remote folder. The drive client
// implements it.
type Lister interface {
	ListChildren(ctx context.Context, folderID string, opts drive.ListOptions) ([]drive.File, error)
}

// MirrorStore persists index snapshots. The sqlite store implements it.
type MirrorStore interface {
	SaveResources(ctx context.Context, resources []Resource) error
}

// Syncer walks the remote folder hierarchy breadth-first and rebuilds the
// index snapshot, writing it through to the mirror store when one is
// configured. It implements Loader for the TreeBuilder.
type Syncer struct {
	lister Lister
	idx    *Index
	store  MirrorStore // optional
	opts   drive.ListOptions
	logger *slog.Logger
	limit  int
}

// NewSyncer creates a Syncer. store may be nil for a memory-only mirror.
func NewSyncer(lister Lister, idx *Index, store MirrorStore, opts drive.ListOptions, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Syncer{
		lister: lister,
		idx:    idx,
		store:  store,
		opts:   opts,
		logger: logger,
		limit:  defaultListConcurrency,
	}
}

// Refresh rebuilds the snapshot from the remote store. Folders at the same
// depth are listed concurrently, bounded by the syncer's limit. The index is
// only replaced when the whole walk succeeds, so a mid-walk failure leaves
// the previous snapshot intact.
func (s *Syncer) Refresh(ctx context.Context) error {
	type frontierEntry struct {
		id   string
		path string // full path of the folder itself
	}

	var (
		mu        sync.Mutex
		resources []Resource
	)

	frontier := []frontierEntry{{id: s.idx.RootID(), path: ""}}

	for depth := 0; len(frontier) > 0; depth++ {
		var next []frontierEntry

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.limit)

		for _, folder := range frontier {
			g.Go(func() error {
				files, err := s.lister.ListChildren(gctx, folder.id, s.opts)
				if err != nil {
					return fmt.Errorf("index: listing %s: %w", folder.id, err)
				}

				children := s.normalize(files, folder.id, folder.path)

				mu.Lock()
				defer mu.Unlock()

				for _, r := range children {
					resources = append(resources, r)

					if r.Type == TypeFolder {
						next = append(next, frontierEntry{id: r.ID, path: r.FullPath()})
					}
				}

				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		frontier = next
	}

	if err := s.idx.Replace(resources); err != nil {
		return err
	}

	s.logger.Info("index refreshed", slog.Int("resources", len(resources)))

	if s.store != nil {
		if err := s.store.SaveResources(ctx, resources); err != nil {
			return fmt.Errorf("index: persisting snapshot: %w", err)
		}
	}

	return nil
}

// normalize converts one folder's listing into resources: unsupported types
// are skipped and sibling slug collisions are disambiguated with a numeric
// suffix.
func (s *Syncer) normalize(files []drive.File, parentID, parentPath string) []Resource {
	taken := make(map[string]bool, len(files))
	out := make([]Resource, 0, len(files))

	for _, f := range files {
		rt, ok := TypeForMime(f.MimeType)
		if !ok {
			s.logger.Debug("skipping unsupported resource",
				slog.String("id", f.ID),
				slog.String("mime_type", f.MimeType),
			)

			continue
		}

		slug := Slugify(f.Name)
		if slug == "" {
			slug = f.ID
		}

		base := slug
		for n := 2; taken[slug]; n++ {
			slug = fmt.Sprintf("%s-%d", base, n)
		}

		taken[slug] = true

		out = append(out, Resource{
			ID:         f.ID,
			ParentID:   parentID,
			Path:       parentPath,
			Slug:       slug,
			Name:       f.Name,
			SortKey:    SortKeyFor(f.Name),
			Type:       rt,
			ModifiedAt: f.ModifiedAt.Unix(),
		})
	}

	return out
}
