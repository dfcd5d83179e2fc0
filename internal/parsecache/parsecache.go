// Package parsecache implements the optional on-disk Parse Cache
// (SPEC_FULL.md §4.4a): a sqlite-backed loader.Cache keyed by
// (absolute path, size, mtime), so a repeated invocation over an unchanged
// source tree skips re-reading and re-unmarshaling YAML it has already
// parsed. Advisory only: every failure here degrades to a cache miss, never
// a hard error, since the loader's in-memory cache is already correct on
// its own.
package parsecache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"
)

// Cache is a sqlite-backed loader.Cache. The zero value is not usable;
// construct with Open.
type Cache struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the sqlite database at dbPath and ensures its
// schema exists.
func Open(dbPath string, logger *slog.Logger) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open parse cache %s: %w", dbPath, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate parse cache: %w", err)
	}
	return &Cache{db: db, logger: logger}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS parsed_documents (
	path TEXT NOT NULL,
	size INTEGER NOT NULL,
	mtime_unix INTEGER NOT NULL,
	document_json TEXT NOT NULL,
	PRIMARY KEY (path, size, mtime_unix)
);
`

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get implements loader.Cache. It reports a miss (rather than an error) for
// any failure: a stat error, a row that can't be found, or a row whose
// stored JSON fails to decode.
func (c *Cache) Get(path string) (any, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	var raw string
	err = c.db.QueryRow(
		`SELECT document_json FROM parsed_documents WHERE path = ? AND size = ? AND mtime_unix = ?`,
		path, info.Size(), info.ModTime().Unix(),
	).Scan(&raw)
	if err != nil {
		return nil, false
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		if c.logger != nil {
			c.logger.Warn("parse cache: stored document is corrupt, ignoring", "path", path, "error", err)
		}
		return nil, false
	}
	return doc, true
}

// Put implements loader.Cache. Failures are logged and otherwise ignored:
// a cache write can never be load-bearing for correctness.
func (c *Cache) Put(path string, doc any) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("parse cache: failed to marshal document, skipping write", "path", path, "error", err)
		}
		return
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO parsed_documents (path, size, mtime_unix, document_json) VALUES (?, ?, ?, ?)`,
		path, info.Size(), info.ModTime().Unix(), string(raw),
	)
	if err != nil && c.logger != nil {
		c.logger.Warn("parse cache: failed to write row", "path", path, "error", err)
	}
}
