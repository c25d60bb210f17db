package testutil

import (
	"database/sql"
	"testing"
	"time"

	"tomodoro/internal/core/model"
	"tomodoro/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// SessionOption customizes a test session.
type SessionOption func(*model.Session)

// WithMode overrides the session mode.
func WithMode(mode model.Mode) SessionOption {
	return func(session *model.Session) { session.Mode = mode }
}

// WithEnd sets the session end time.
func WithEnd(end time.Time) SessionOption {
	return func(session *model.Session) { session.EndTime = &end }
}

// NewTestSession returns a focus session of seconds starting at start.
func NewTestSession(start time.Time, seconds int, opts ...SessionOption) model.Session {
	session := model.Session{
		Mode:      model.ModeFocus,
		Duration:  seconds,
		StartTime: start,
	}
	for _, opt := range opts {
		opt(&session)
	}
	return session
}
