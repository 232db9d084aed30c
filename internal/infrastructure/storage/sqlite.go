package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS contents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    slug TEXT,
    content_html TEXT,
    content_md TEXT,
    meta_description TEXT,
    keywords TEXT,
    status TEXT NOT NULL DEFAULT 'draft',
    similarity_score REAL,
    content_hash TEXT,
    word_count INTEGER DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    published_at TIMESTAMP,
    url TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_contents_published_slug
    ON contents(slug) WHERE status = 'published';
CREATE INDEX IF NOT EXISTS idx_contents_status ON contents(status);

CREATE TABLE IF NOT EXISTS kill_switch (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    is_active INTEGER NOT NULL DEFAULT 0,
    reason TEXT,
    triggered_count INTEGER NOT NULL DEFAULT 0,
    activated_at TIMESTAMP,
    deactivate_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    cycle_id TEXT NOT NULL,
    task_type TEXT NOT NULL,
    params TEXT,
    result TEXT,
    status TEXT NOT NULL,
    error_message TEXT,
    duration_seconds REAL NOT NULL DEFAULT 0,
    started_at TIMESTAMP,
    completed_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_audit_cycle ON audit_log(cycle_id);

CREATE TABLE IF NOT EXISTS site_errors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    error_type TEXT,
    status_code INTEGER,
    message TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_site_errors_created ON site_errors(created_at);
`

// Open creates (if needed) and opens the governor database, applying the
// schema. Paths other than the in-memory DSN get their parent directory
// created.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Single-process governor: one connection avoids table-lock races
	// between the WAL writer and readers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return db, nil
}
