package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb"
)

type DB struct {
	conn *sql.DB
}

func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_library_id START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_item_id START 1;`,

		`CREATE TABLE IF NOT EXISTS libraries (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			dir TEXT NOT NULL,
			built_at TIMESTAMP,
			last_used_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY,
			library_id INTEGER REFERENCES libraries(id),
			path TEXT NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			signature TEXT,
			public BOOLEAN NOT NULL,
			summary TEXT,
			content_hash TEXT,
			UNIQUE(library_id, path)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_library ON items (library_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_hash ON items (content_hash)`,
	}

	for _, q := range queries {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// --- Library operations ---

type Library struct {
	ID         int
	Name       string
	Dir        string
	BuiltAt    *time.Time
	LastUsedAt time.Time
}

const libraryColumns = `id, name, dir, built_at, last_used_at`

func scanLibrary(row interface{ Scan(...any) error }) (*Library, error) {
	var l Library
	if err := row.Scan(&l.ID, &l.Name, &l.Dir, &l.BuiltAt, &l.LastUsedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// UpsertLibrary returns the library called name, creating it if needed. The
// stored directory is updated when the library moved.
func (db *DB) UpsertLibrary(name, dir string) (*Library, error) {
	l, err := db.GetLibrary(name)
	if err != nil {
		return nil, fmt.Errorf("checking library: %w", err)
	}
	if l != nil {
		if l.Dir != dir {
			if _, err := db.conn.Exec(`UPDATE libraries SET dir = ? WHERE id = ?`, dir, l.ID); err != nil {
				return nil, fmt.Errorf("updating library dir: %w", err)
			}
			l.Dir = dir
		}
		return l, nil
	}

	_, err = db.conn.Exec(
		`INSERT INTO libraries (id, name, dir) VALUES (nextval('seq_library_id'), ?, ?)`,
		name, dir,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting library: %w", err)
	}

	l, err = db.GetLibrary(name)
	if err != nil {
		return nil, fmt.Errorf("getting library id: %w", err)
	}
	return l, nil
}

func (db *DB) MarkLibraryBuilt(libraryID int) error {
	_, err := db.conn.Exec(`UPDATE libraries SET built_at = CURRENT_TIMESTAMP WHERE id = ?`, libraryID)
	return err
}

func (db *DB) TouchLibrary(libraryID int) error {
	_, err := db.conn.Exec(`UPDATE libraries SET last_used_at = CURRENT_TIMESTAMP WHERE id = ?`, libraryID)
	return err
}

// GetLibrary returns nil without error when no library has that name.
func (db *DB) GetLibrary(name string) (*Library, error) {
	l, err := scanLibrary(db.conn.QueryRow(
		`SELECT `+libraryColumns+` FROM libraries WHERE name = ?`, name,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

func (db *DB) ListLibraries() ([]Library, error) {
	rows, err := db.conn.Query(`SELECT ` + libraryColumns + ` FROM libraries ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var libs []Library
	for rows.Next() {
		l, err := scanLibrary(rows)
		if err != nil {
			return nil, err
		}
		libs = append(libs, *l)
	}
	return libs, rows.Err()
}

// --- Item operations ---

type Item struct {
	ID          int
	LibraryID   int
	Path        string
	Name        string
	Kind        string
	Signature   string
	Public      bool
	Summary     string
	ContentHash string
}

const itemColumns = `id, library_id, path, name, kind, signature, public, summary, content_hash`

func scanItem(row interface{ Scan(...any) error }, extra ...any) (*Item, error) {
	var it Item
	var signature, summary, hash sql.NullString
	dest := append([]any{&it.ID, &it.LibraryID, &it.Path, &it.Name, &it.Kind, &signature, &it.Public, &summary, &hash}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	it.Signature, it.Summary, it.ContentHash = signature.String, summary.String, hash.String
	return &it, nil
}

// InsertItem stores item, replacing an item at the same path. Uiua allows a
// name to be bound again, in which case the last binding is indexed.
func (db *DB) InsertItem(item *Item) error {
	_, err := db.conn.Exec(
		`INSERT INTO items (id, library_id, path, name, kind, signature, public, summary, content_hash)
		 VALUES (nextval('seq_item_id'), ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (library_id, path) DO UPDATE SET
			name = EXCLUDED.name, kind = EXCLUDED.kind, signature = EXCLUDED.signature,
			public = EXCLUDED.public, summary = EXCLUDED.summary, content_hash = EXCLUDED.content_hash`,
		item.LibraryID, item.Path, item.Name, item.Kind, item.Signature, item.Public, item.Summary, item.ContentHash,
	)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}

	return db.conn.QueryRow(
		`SELECT id FROM items WHERE library_id = ? AND path = ?`,
		item.LibraryID, item.Path,
	).Scan(&item.ID)
}

// GetItemByPath returns nil without error when the path is not indexed.
func (db *DB) GetItemByPath(libraryID int, path string) (*Item, error) {
	it, err := scanItem(db.conn.QueryRow(
		`SELECT `+itemColumns+` FROM items WHERE library_id = ? AND path = ?`,
		libraryID, path,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return it, err
}

func (db *DB) DeleteItemsByLibrary(libraryID int) error {
	_, err := db.conn.Exec(`DELETE FROM items WHERE library_id = ?`, libraryID)
	return err
}

func (db *DB) CountItems(libraryID int) (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM items WHERE library_id = ?`, libraryID).Scan(&count)
	return count, err
}

// --- Search ---

type SearchResult struct {
	Item
	Library string
	Score   float64
}

// SearchItems matches query against item paths and summaries, case
// insensitively. Exact name matches rank first, then name prefixes, then
// path matches; ties are broken by Jaro-Winkler similarity of the name.
// An empty libraries list searches everything.
func (db *DB) SearchItems(query string, libraries []string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var libFilter string
	params := []any{query, query, query, query, query, query}
	if len(libraries) > 0 {
		placeholders := make([]string, len(libraries))
		for i, name := range libraries {
			placeholders[i] = "?"
			params = append(params, name)
		}
		libFilter = fmt.Sprintf(` AND l.name IN (%s)`, strings.Join(placeholders, ","))
	}
	params = append(params, limit)

	q := fmt.Sprintf(`
		SELECT i.id, i.library_id, i.path, i.name, i.kind, i.signature, i.public, i.summary, i.content_hash,
		       l.name,
		       CAST(CASE
		           WHEN lower(i.name) = lower(?) THEN 1.0
		           WHEN i.name ILIKE ? || '%%' THEN 0.8
		           WHEN i.path ILIKE '%%' || ? || '%%' THEN 0.6
		           ELSE 0.4
		       END AS DOUBLE) AS score,
		       jaro_winkler_similarity(lower(i.name), lower(?)) AS sim
		FROM items i JOIN libraries l ON l.id = i.library_id
		WHERE (i.path ILIKE '%%' || ? || '%%' OR i.summary ILIKE '%%' || ? || '%%')%s
		ORDER BY score DESC, sim DESC, i.path
		LIMIT ?`, libFilter)

	rows, err := db.conn.Query(q, params...)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var sim float64
		it, err := scanItem(rows, &r.Library, &r.Score, &sim)
		if err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.Item = *it
		results = append(results, r)
	}
	return results, rows.Err()
}

// Reset drops every library and item.
func (db *DB) Reset() error {
	for _, q := range []string{`DELETE FROM items`, `DELETE FROM libraries`} {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}
