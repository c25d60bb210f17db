package db

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		seq              INTEGER PRIMARY KEY AUTOINCREMENT,
		id               TEXT NOT NULL UNIQUE,
		mode             TEXT NOT NULL CHECK(mode IN ('focus','break')),
		duration_seconds INTEGER NOT NULL CHECK(duration_seconds >= 0),
		start_time       TEXT NOT NULL,
		end_time         TEXT,
		created_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON sessions(start_time)`,
	`CREATE TRIGGER IF NOT EXISTS sessions_no_update
		BEFORE UPDATE ON sessions
		BEGIN
			SELECT RAISE(ABORT, 'sessions are append-only');
		END`,
	`CREATE TRIGGER IF NOT EXISTS sessions_no_delete
		BEFORE DELETE ON sessions
		BEGIN
			SELECT RAISE(ABORT, 'sessions are append-only');
		END`,
}

// Migrate runs all schema migrations. Statements are idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
