// Package store persists the metadata mirror and the rendered-page cache in
// a single embedded SQLite database with WAL mode. It implements
// index.MirrorStore and pagecache.Store.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver, registers as "sqlite".
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// walJournalSizeLimit caps the WAL journal at 64 MiB.
const walJournalSizeLimit = 67108864

// SQLite implements the persistent backends over one database file.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger

	// Prepared statements for repeated queries, grouped by domain.
	resourceStmts resourceStatements
	pageStmts     pageStatements
}

type resourceStatements struct {
	insert, deleteAll, listAll *sql.Stmt
}

type pageStatements struct {
	get, upsert, purge *sql.Stmt
}

// Open creates a SQLite store at dbPath, applying migrations and preparing
// all repeated statements. Use ":memory:" for tests.
func Open(dbPath string, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("opening site database", "path", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: opening sqlite: %w", err)
	}

	// Sole-writer: the mirror and cache share one connection so writers
	// never trip over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := setPragmas(context.Background(), db, logger); err != nil {
		db.Close()
		return nil, err
	}

	if err := runMigrations(context.Background(), db, logger); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db, logger: logger}

	if err := s.prepareStatements(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: preparing statements: %w", err)
	}

	return s, nil
}

// Close releases prepared statements and the underlying database.
func (s *SQLite) Close() error {
	for _, stmt := range []*sql.Stmt{
		s.resourceStmts.insert, s.resourceStmts.deleteAll, s.resourceStmts.listAll,
		s.pageStmts.get, s.pageStmts.upsert, s.pageStmts.purge,
	} {
		if stmt != nil {
			stmt.Close()
		}
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: closing database: %w", err)
	}

	return nil
}

// setPragmas configures SQLite for WAL mode and safety.
func setPragmas(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	pragmas := []struct {
		sql  string
		desc string
	}{
		{"PRAGMA journal_mode = WAL", "WAL mode"},
		{"PRAGMA synchronous = FULL", "synchronous FULL"},
		{"PRAGMA foreign_keys = ON", "foreign keys"},
		{fmt.Sprintf("PRAGMA journal_size_limit = %d", walJournalSizeLimit), "journal size limit"},
	}

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p.sql); err != nil {
			return fmt.Errorf("store: setting pragma %s: %w", p.desc, err)
		}

		logger.Debug("pragma set", "pragma", p.desc)
	}

	return nil
}

// runMigrations applies all pending schema migrations to the database using
// the goose v3 Provider API (no global state, context-aware).
func runMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	// Strip the "migrations/" prefix so goose sees files at the root of the FS.
	subFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("store: creating migration sub-filesystem: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, subFS)
	if err != nil {
		return fmt.Errorf("store: creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("store: running migrations: %w", err)
	}

	for _, r := range results {
		logger.Info("applied migration",
			slog.String("source", r.Source.Path),
			slog.Int64("duration_ms", r.Duration.Milliseconds()),
		)
	}

	return nil
}

func (s *SQLite) prepareStatements(ctx context.Context) error {
	var err error

	prepare := func(dst **sql.Stmt, query string) {
		if err != nil {
			return
		}

		*dst, err = s.db.PrepareContext(ctx, query)
	}

	prepare(&s.resourceStmts.insert,
		`INSERT INTO resources (id, parent_id, path, slug, name, sort_key, resource_type, modified_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	prepare(&s.resourceStmts.deleteAll, `DELETE FROM resources`)
	prepare(&s.resourceStmts.listAll,
		`SELECT id, parent_id, path, slug, name, sort_key, resource_type, modified_at
		 FROM resources ORDER BY id`)

	prepare(&s.pageStmts.get,
		`SELECT file_id, modified_at, html FROM pages WHERE path = ?`)
	prepare(&s.pageStmts.upsert,
		`INSERT INTO pages (path, file_id, modified_at, html) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			file_id = excluded.file_id,
			modified_at = excluded.modified_at,
			html = excluded.html`)
	prepare(&s.pageStmts.purge,
		`DELETE FROM pages WHERE path = ? AND modified_at <= ?`)

	return err
}
