package store

import (
	"context"
	"fmt"

	"github.com/drivewiki/drivewiki/internal/index"
)

// SaveResources replaces the persisted mirror with the given snapshot in one
// transaction, so readers never observe a half-written mirror.
func (s *SQLite) SaveResources(ctx context.Context, resources []index.Resource) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: beginning snapshot write: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.StmtContext(ctx, s.resourceStmts.deleteAll).ExecContext(ctx); err != nil {
		return fmt.Errorf("store: clearing mirror: %w", err)
	}

	insert := tx.StmtContext(ctx, s.resourceStmts.insert)

	for _, r := range resources {
		_, err := insert.ExecContext(ctx,
			r.ID, r.ParentID, r.Path, r.Slug, r.Name, r.SortKey, string(r.Type), r.ModifiedAt)
		if err != nil {
			return fmt.Errorf("store: inserting resource %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: committing snapshot: %w", err)
	}

	s.logger.Debug("mirror snapshot saved", "resources", len(resources))

	return nil
}

// LoadResources returns the persisted mirror snapshot, for populating the
// index at startup without a remote round trip.
func (s *SQLite) LoadResources(ctx context.Context) ([]index.Resource, error) {
	rows, err := s.resourceStmts.listAll.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: loading mirror: %w", err)
	}
	defer rows.Close()

	var resources []index.Resource

	for rows.Next() {
		var (
			r  index.Resource
			rt string
		)

		if err := rows.Scan(&r.ID, &r.ParentID, &r.Path, &r.Slug, &r.Name, &r.SortKey, &rt, &r.ModifiedAt); err != nil {
			return nil, fmt.Errorf("store: scanning resource: %w", err)
		}

		r.Type = index.ResourceType(rt)
		resources = append(resources, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterating mirror: %w", err)
	}

	return resources, nil
}
