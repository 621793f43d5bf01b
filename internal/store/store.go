// Package store persists the space registry and the list of imported
// template files in a local SQLite database, so CLI invocations share state.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/srtdog64/TemplateForge/internal/space"
)

// ErrNotFound is returned when a named space is not in the store.
var ErrNotFound = errors.New("not found")

const timeLayout = time.RFC3339Nano

// schema contains the DDL executed on every open.
const schema = `
CREATE TABLE IF NOT EXISTS spaces (
    name        TEXT PRIMARY KEY,
    created_at  TEXT NOT NULL,
    modified_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
    id         TEXT NOT NULL,
    space      TEXT NOT NULL REFERENCES spaces(name) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    name       TEXT NOT NULL,
    type       TEXT NOT NULL,
    content    TEXT NOT NULL,
    file_path  TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (space, id)
);

CREATE INDEX IF NOT EXISTS documents_space ON documents(space, position);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS templates (
    path        TEXT PRIMARY KEY,
    imported_at TEXT NOT NULL
);
`

const activeKey = "active_space"

// Store is a SQLite-backed registry store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, enables WAL mode and a busy
// timeout, and creates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSpace writes sp and replaces its stored documents in one transaction.
func (s *Store) SaveSpace(ctx context.Context, sp *space.Space) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx for space %q: %w", sp.Name, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := saveSpace(ctx, tx, sp); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit space %q: %w", sp.Name, err)
	}
	return nil
}

func saveSpace(ctx context.Context, tx *sql.Tx, sp *space.Space) error {
	const upsert = `
		INSERT INTO spaces (name, created_at, modified_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			created_at  = excluded.created_at,
			modified_at = excluded.modified_at`
	if _, err := tx.ExecContext(ctx, upsert, sp.Name,
		sp.CreatedAt.UTC().Format(timeLayout), sp.ModifiedAt.UTC().Format(timeLayout)); err != nil {
		return fmt.Errorf("store: save space %q: %w", sp.Name, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE space = ?", sp.Name); err != nil {
		return fmt.Errorf("store: clear documents of %q: %w", sp.Name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, space, position, name, type, content, file_path, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare document insert: %w", err)
	}
	defer stmt.Close()

	for i, doc := range sp.Documents() {
		if _, err := stmt.ExecContext(ctx, doc.ID.String(), sp.Name, i, doc.Name, string(doc.Type),
			doc.Content, doc.FilePath, doc.UpdatedAt.UTC().Format(timeLayout)); err != nil {
			return fmt.Errorf("store: save document %q: %w", doc.Name, err)
		}
	}
	return nil
}

// LoadSpace reads the named space and its documents in stored order.
func (s *Store) LoadSpace(ctx context.Context, name string) (*space.Space, error) {
	var created, modified string
	err := s.db.QueryRowContext(ctx,
		"SELECT created_at, modified_at FROM spaces WHERE name = ?", name).Scan(&created, &modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: space %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load space %q: %w", name, err)
	}

	sp := space.New(name)
	sp.CreatedAt = parseTime(created)
	sp.ModifiedAt = parseTime(modified)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, content, file_path, updated_at
		FROM documents WHERE space = ? ORDER BY position`, name)
	if err != nil {
		return nil, fmt.Errorf("store: load documents of %q: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, docName, typ, content, filePath, updated string
		if err := rows.Scan(&id, &docName, &typ, &content, &filePath, &updated); err != nil {
			return nil, fmt.Errorf("store: scan document: %w", err)
		}
		uid, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("store: document id %q: %w", id, err)
		}
		t, err := space.ParseDocType(typ)
		if err != nil {
			t = space.TypeGeneric
		}
		if _, err := sp.Restore(space.Document{
			ID:        uid,
			Name:      docName,
			Type:      t,
			Content:   content,
			FilePath:  filePath,
			UpdatedAt: parseTime(updated),
		}); err != nil {
			return nil, fmt.Errorf("store: restore document %q: %w", docName, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate documents: %w", err)
	}
	return sp, nil
}

// DeleteSpace removes the named space and its documents.
func (s *Store) DeleteSpace(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM spaces WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("store: delete space %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: space %q: %w", name, ErrNotFound)
	}
	return nil
}

// SpaceNames returns stored space names in first-saved order.
func (s *Store) SpaceNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM spaces ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("store: list spaces: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("store: scan space name: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate spaces: %w", err)
	}
	return names, nil
}

// SaveRegistry writes every space in r and records the active one.
func (s *Store) SaveRegistry(ctx context.Context, r *space.Registry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx for registry: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, sp := range r.Spaces() {
		if err := saveSpace(ctx, tx, sp); err != nil {
			return err
		}
	}
	if active := r.Active(); active != nil {
		const q = `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`
		if _, err := tx.ExecContext(ctx, q, activeKey, active.Name); err != nil {
			return fmt.Errorf("store: save active space: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit registry: %w", err)
	}
	return nil
}

// LoadRegistry rebuilds a registry from every stored space. The recorded
// active space is restored when it still exists.
func (s *Store) LoadRegistry(ctx context.Context) (*space.Registry, error) {
	names, err := s.SpaceNames(ctx)
	if err != nil {
		return nil, err
	}
	r := space.NewRegistry()
	for _, n := range names {
		sp, err := s.LoadSpace(ctx, n)
		if err != nil {
			return nil, err
		}
		if err := r.Add(sp); err != nil {
			return nil, fmt.Errorf("store: add space %q: %w", n, err)
		}
	}

	var active string
	err = s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", activeKey).Scan(&active)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("store: load active space: %w", err)
	default:
		_ = r.SetActive(active)
	}
	return r, nil
}

// AddTemplate records an imported template path. Re-adding is a no-op.
func (s *Store) AddTemplate(ctx context.Context, path string) error {
	const q = `INSERT INTO templates (path, imported_at) VALUES (?, ?) ON CONFLICT(path) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, q, path, time.Now().UTC().Format(timeLayout)); err != nil {
		return fmt.Errorf("store: add template %q: %w", path, err)
	}
	return nil
}

// RemoveTemplate forgets an imported template path.
func (s *Store) RemoveTemplate(ctx context.Context, path string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM templates WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("store: remove template %q: %w", path, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: template %q: %w", path, ErrNotFound)
	}
	return nil
}

// TemplatePaths returns recorded template paths in import order.
func (s *Store) TemplatePaths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path FROM templates ORDER BY imported_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("store: list templates: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("store: scan template path: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate templates: %w", err)
	}
	return paths, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
