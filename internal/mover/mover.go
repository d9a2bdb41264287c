// Package mover performs move/rename operations against the remote store
// while keeping the local index and page cache consistent. A move resolves
// to the page's new public path, or to "/" when there is nothing servable to
// redirect to; the remote move is never rolled back for a caching concern.
package mover

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/drivewiki/drivewiki/internal/drive"
	"github.com/drivewiki/drivewiki/internal/index"
	"github.com/drivewiki/drivewiki/internal/pagecache"
)

// TrashDestination is the sentinel destination id that sends a file to the
// Drive trash instead of a folder.
const TrashDestination = "trash"

// HomePath is the redirect target when a move produces no servable path.
const HomePath = "/"

// Validation errors: expected bad input, distinguishable from infrastructure
// failures with errors.Is. The remote store is never called when one of
// these is returned.
var (
	ErrNoParentFolders      = errors.New("mover: file has no parent folders")
	ErrRootContainer        = errors.New("mover: cannot move the root container")
	ErrUnknownDestination   = errors.New("mover: unknown destination")
	ErrDestinationNotFolder = errors.New("mover: destination is not a folder")
)

// IsValidationError reports whether err is expected bad input rather than an
// infrastructure failure (auth, network, remote API).
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoParentFolders) ||
		errors.Is(err, ErrRootContainer) ||
		errors.Is(err, ErrUnknownDestination) ||
		errors.Is(err, ErrDestinationNotFolder)
}

// Remote is the slice of the Drive client the mover consumes.
type Remote interface {
	Verify(ctx context.Context) error
	Update(ctx context.Context, opts drive.UpdateOptions) (*drive.File, error)
	Trash(ctx context.Context, fileID string, opts drive.UpdateOptions) (*drive.File, error)
}

// Metadata resolves mirrored resource metadata by id and by resolved path.
type Metadata interface {
	GetMeta(id string) (index.Resource, bool)
	ByPath(path string) (index.Resource, bool)
}

// Config carries the injected configuration the mover needs, instead of
// reading process-level state ad hoc.
type Config struct {
	// RootID is the top-level container id; moving it is always rejected.
	RootID string
	// TeamDriveID is sent as teamDriveId in team mode.
	TeamDriveID string
	// Mode is the addressing mode used when a call does not specify one.
	Mode drive.Mode
}

// Mover orchestrates a single move: validation, remote update, cache
// reconciliation.
type Mover struct {
	remote Remote
	meta   Metadata
	cache  pagecache.Store
	cfg    Config
	logger *slog.Logger

	// now is the timestamp source for relocated cache entries.
	// Tests override it.
	now func() time.Time
}

// New creates a Mover.
func New(remote Remote, meta Metadata, cache pagecache.Store, cfg Config, logger *slog.Logger) *Mover {
	if logger == nil {
		logger = slog.Default()
	}

	return &Mover{
		remote: remote,
		meta:   meta,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// MoveFile moves fileID under destinationID and returns the file's new
// public path, or "/" when the page has nothing servable at its old path,
// when relocating the cache entry fails, or when the destination is the
// trash sentinel.
//
// Validation failures return the package sentinels; authentication and
// remote failures return wrapped infrastructure errors. Concurrent calls
// for the same file id are not serialized here — the caller holds that
// responsibility.
func (m *Mover) MoveFile(ctx context.Context, fileID, destinationID string, mode drive.Mode) (string, error) {
	logger := m.logger.With(
		slog.String("op", uuid.NewString()),
		slog.String("file_id", fileID),
		slog.String("destination_id", destinationID),
	)

	if mode == drive.ModeDefault {
		mode = m.cfg.Mode
	}

	if err := m.remote.Verify(ctx); err != nil {
		return "", fmt.Errorf("mover: authentication: %w", err)
	}

	if fileID == m.cfg.RootID {
		return "", ErrRootContainer
	}

	meta, ok := m.meta.GetMeta(fileID)
	if !ok || meta.FullPath() == "" {
		return "", ErrNoParentFolders
	}

	oldPath := meta.FullPath()

	if destinationID == TrashDestination {
		return m.trash(ctx, logger, fileID, oldPath, meta, mode)
	}

	dest, ok := m.meta.GetMeta(destinationID)
	if !ok {
		return "", ErrUnknownDestination
	}

	if dest.Type != index.TypeFolder {
		return "", ErrDestinationNotFolder
	}

	newPath := m.destinationPath(dest, meta, fileID)

	if _, err := m.remote.Update(ctx, m.updateOptions(fileID, destinationID, meta.ParentID, mode)); err != nil {
		return "", fmt.Errorf("mover: remote update: %w", err)
	}

	logger.Info("file moved remotely", slog.String("new_path", newPath))

	return m.relocateCache(ctx, logger, fileID, oldPath, newPath), nil
}

// destinationPath joins the destination folder's path with the moved
// file's slug, disambiguating with a numeric suffix when a sibling already
// owns that path. The index applies the same rule when it reparents, so
// the cache ends up keyed by the path the index will resolve.
func (m *Mover) destinationPath(dest, meta index.Resource, fileID string) string {
	base := dest.FullPath()

	slug := meta.Slug
	for n := 2; ; n++ {
		taken, ok := m.meta.ByPath(base + "/" + slug)
		if !ok || taken.ID == fileID {
			break
		}

		slug = fmt.Sprintf("%s-%d", meta.Slug, n)
	}

	return base + "/" + slug
}

// trash sends the file to the Drive trash. The page disappears from normal
// navigation, so the result is always the home redirect; any cache state at
// the old path is stale and purged best-effort.
func (m *Mover) trash(
	ctx context.Context, logger *slog.Logger, fileID, oldPath string, meta index.Resource, mode drive.Mode,
) (string, error) {
	opts := m.updateOptions(fileID, "", meta.ParentID, mode)

	if _, err := m.remote.Trash(ctx, fileID, opts); err != nil {
		return "", fmt.Errorf("mover: trashing file: %w", err)
	}

	if err := m.cache.Purge(ctx, oldPath, m.now()); err != nil {
		logger.Warn("failed to purge trashed page from cache",
			slog.String("path", oldPath),
			slog.String("error", err.Error()),
		)
	}

	logger.Info("file trashed")

	return HomePath, nil
}

// relocateCache moves the cached page from oldPath to newPath. Every cache
// failure degrades to the home redirect: the remote move already succeeded
// and the content can be re-rendered at the new path later.
func (m *Mover) relocateCache(ctx context.Context, logger *slog.Logger, fileID, oldPath, newPath string) string {
	entry, ok, err := m.cache.Get(ctx, oldPath)
	if err != nil {
		logger.Warn("cache lookup failed after move", slog.String("error", err.Error()))
		return HomePath
	}

	if !ok || !entry.HasHTML() {
		// Nothing cacheable was associated with this page; redirect home
		// rather than fabricate a URL.
		return HomePath
	}

	relocated := pagecache.Entry{
		Path:       newPath,
		FileID:     fileID,
		ModifiedAt: m.now(),
		HTML:       entry.HTML,
	}

	if err := m.cache.Add(ctx, relocated); err != nil {
		logger.Warn("failed to cache page at new path",
			slog.String("new_path", newPath),
			slog.String("error", err.Error()),
		)

		return HomePath
	}

	// A failed purge leaves a stale entry at the old path; the next render
	// supersedes it, so the new path is still the right answer.
	if err := m.cache.Purge(ctx, oldPath, entry.ModifiedAt); err != nil {
		logger.Warn("failed to purge old path from cache",
			slog.String("old_path", oldPath),
			slog.String("error", err.Error()),
		)
	}

	return newPath
}

// updateOptions builds the files.update call options for the given mode.
// Team mode addresses the configured team drive through corpora and
// teamDriveId; shared mode omits both.
func (m *Mover) updateOptions(fileID, destinationID, oldParentID string, mode drive.Mode) drive.UpdateOptions {
	opts := drive.UpdateOptions{
		FileID:         fileID,
		AddParentID:    destinationID,
		RemoveParentID: oldParentID,
	}

	if mode == drive.ModeTeam {
		opts.Corpora = "teamDrive"
		opts.TeamDriveID = m.cfg.TeamDriveID
	}

	return opts
}
