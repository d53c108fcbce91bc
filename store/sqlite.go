// ABOUTME: SQLite-backed scan index caching extracted snippet metadata and build history.
// ABOUTME: Always rebuildable from the snippet directory; deleting the database only costs a re-parse.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/willf/snippets/snippet"
)

// BuildRecord is one row from the builds table: a single index generation run.
type BuildRecord struct {
	BuildID      string `json:"build_id"`
	GeneratedAt  string `json:"generated_at"`
	SnippetCount int    `json:"snippet_count"`
	OutputSHA    string `json:"output_sha"`
}

// Store is a SQLite-backed cache of extracted snippet metadata plus a log of
// generation runs. It serves as a queryable cache, never the source of
// truth: the snippet directory itself is authoritative.
type Store struct {
	db *sql.DB
}

// Open opens or creates the scan index database at the given path. Runs
// migrations and mints a site_id on first open.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS snippets (
			filename TEXT PRIMARY KEY,
			content_sha TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			scanned_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS builds (
			build_id TEXT PRIMARY KEY,
			generated_at TEXT NOT NULL,
			snippet_count INTEGER NOT NULL,
			output_sha TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSiteID(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSiteID mints a stable site identifier on first open.
func (s *Store) ensureSiteID() error {
	_, err := s.db.Exec(
		`INSERT INTO meta (key, value) VALUES ('site_id', ?)
		 ON CONFLICT(key) DO NOTHING`,
		uuid.NewString(),
	)
	if err != nil {
		return fmt.Errorf("ensure site_id: %w", err)
	}
	return nil
}

// SiteID returns the stable identifier minted when the store was first
// created.
func (s *Store) SiteID() (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'site_id'`).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("read site_id: %w", err)
	}
	return id, nil
}

// LookupEntry returns the cached entry for filename if the stored content
// hash matches. A miss means the file is new or has changed since the last
// scan.
func (s *Store) LookupEntry(filename, contentSHA string) (snippet.Entry, bool) {
	var entry snippet.Entry
	var storedSHA string
	err := s.db.QueryRow(
		`SELECT content_sha, title, description FROM snippets WHERE filename = ?`,
		filename,
	).Scan(&storedSHA, &entry.Title, &entry.Description)
	if err != nil || storedSHA != contentSHA {
		return snippet.Entry{}, false
	}
	entry.Filename = filename
	return entry, true
}

// SaveEntry upserts extracted metadata for a snippet file.
func (s *Store) SaveEntry(filename, contentSHA string, entry snippet.Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO snippets (filename, content_sha, title, description, scanned_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(filename) DO UPDATE SET
			content_sha = excluded.content_sha,
			title = excluded.title,
			description = excluded.description,
			scanned_at = excluded.scanned_at`,
		filename,
		contentSHA,
		entry.Title,
		entry.Description,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert snippet %s: %w", filename, err)
	}
	return nil
}

// PruneMissing deletes cached rows for files no longer present in the
// directory, keeping the index from growing stale entries forever.
func (s *Store) PruneMissing(present []string) error {
	keep := make(map[string]bool, len(present))
	for _, name := range present {
		keep[name] = true
	}

	rows, err := s.db.Query(`SELECT filename FROM snippets`)
	if err != nil {
		return fmt.Errorf("list cached snippets: %w", err)
	}
	var stale []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan cached filename: %w", err)
		}
		if !keep[name] {
			stale = append(stale, name)
		}
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("close cached snippet rows: %w", err)
	}

	for _, name := range stale {
		if _, err := s.db.Exec(`DELETE FROM snippets WHERE filename = ?`, name); err != nil {
			return fmt.Errorf("prune %s: %w", name, err)
		}
	}
	return nil
}

// RecordBuild appends a generation run to the build history.
func (s *Store) RecordBuild(buildID string, generatedAt time.Time, snippetCount int, outputSHA string) error {
	_, err := s.db.Exec(
		`INSERT INTO builds (build_id, generated_at, snippet_count, output_sha)
		 VALUES (?, ?, ?, ?)`,
		buildID,
		generatedAt.UTC().Format(time.RFC3339),
		snippetCount,
		outputSHA,
	)
	if err != nil {
		return fmt.Errorf("record build %s: %w", buildID, err)
	}
	return nil
}

// ListBuilds returns up to limit builds, newest first. ULID build IDs sort
// lexicographically by creation time, so ordering by build_id is ordering by
// time.
func (s *Store) ListBuilds(limit int) ([]BuildRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT build_id, generated_at, snippet_count, output_sha
		 FROM builds ORDER BY build_id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var builds []BuildRecord
	for rows.Next() {
		var b BuildRecord
		if err := rows.Scan(&b.BuildID, &b.GeneratedAt, &b.SnippetCount, &b.OutputSHA); err != nil {
			return nil, fmt.Errorf("scan build row: %w", err)
		}
		builds = append(builds, b)
	}
	return builds, rows.Err()
}
