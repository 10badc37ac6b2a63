// Package sqlite provides a SQLite-backed implementation of the store
// interfaces for local, single-user deployments. It uses the pure-Go
// modernc.org/sqlite driver, so no cgo toolchain is needed.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// schema creates the scheduling table if it does not exist. SQLite
// deployments apply the schema inline instead of running versioned
// migrations; the table is small and append-only in structure.
const schema = `
CREATE TABLE IF NOT EXISTS kana_progress (
	kana_char        TEXT PRIMARY KEY,
	repetitions      INTEGER NOT NULL DEFAULT 0,
	interval_days    INTEGER NOT NULL DEFAULT 1,
	ease_factor      REAL NOT NULL DEFAULT 2.5,
	due_at           TIMESTAMP NOT NULL,
	last_reviewed_at TIMESTAMP,
	review_count     INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMP NOT NULL,
	updated_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_kana_progress_due_at ON kana_progress (due_at);
`

// Open creates a new database connection and ensures the schema is in place.
// The dsn is a file path, or ":memory:" for an ephemeral database.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// database/sql pools connections, but a fresh connection to a :memory:
	// DSN gets an empty database. One connection keeps tests and local use
	// coherent; the app is single-user anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}
