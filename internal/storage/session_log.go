package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tomodoro/internal/core/model"

	"github.com/google/uuid"
)

const sessionColumns = `id, mode, duration_seconds, start_time, end_time`

// SessionLog is the append-only SQLite store of recorded sessions.
type SessionLog struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionLog creates a SessionLog over an opened and migrated database.
func NewSessionLog(db *sql.DB) *SessionLog {
	return &SessionLog{db: db, now: time.Now}
}

// Append stores a session. An empty ID is replaced by a new UUID.
func (log *SessionLog) Append(ctx context.Context, session model.Session) error {
	return appendSession(ctx, log.db, session, log.now())
}

// Import appends sessions in one transaction, preserving their order.
func (log *SessionLog) Import(ctx context.Context, sessions []model.Session) (int, error) {
	tx, err := log.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting import transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	createdAt := log.now()
	for i, session := range sessions {
		if err := appendSession(ctx, tx, session, createdAt); err != nil {
			return 0, fmt.Errorf("importing session %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	committed = true
	return len(sessions), nil
}

// List returns every session in insertion order.
func (log *SessionLog) List(ctx context.Context) ([]model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY seq`
	rows, err := log.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// ListBetween returns sessions whose start time lies in [from, to), in
// insertion order.
func (log *SessionLog) ListBetween(ctx context.Context, from, to time.Time) ([]model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE start_time >= ? AND start_time < ?
		ORDER BY seq`
	rows, err := log.db.QueryContext(ctx, query, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("listing sessions between: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// Count returns the number of stored sessions.
func (log *SessionLog) Count(ctx context.Context) (int, error) {
	var count int
	if err := log.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return count, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func appendSession(ctx context.Context, db execer, session model.Session, createdAt time.Time) error {
	if !session.Mode.Valid() {
		return fmt.Errorf("inserting session: invalid mode %q", session.Mode)
	}
	if session.Duration < 0 {
		return fmt.Errorf("inserting session: negative duration %d", session.Duration)
	}
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	var endTime sql.NullString
	if session.EndTime != nil {
		endTime = sql.NullString{String: formatTime(*session.EndTime), Valid: true}
	}

	query := `INSERT INTO sessions (id, mode, duration_seconds, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		session.ID,
		string(session.Mode),
		session.Duration,
		formatTime(session.StartTime),
		endTime,
		formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func scanSessions(rows *sql.Rows) ([]model.Session, error) {
	var sessions []model.Session
	for rows.Next() {
		var session model.Session
		var mode, startStr string
		var endStr sql.NullString

		if err := rows.Scan(&session.ID, &mode, &session.Duration, &startStr, &endStr); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}

		session.Mode = model.Mode(mode)
		start, err := parseTime(startStr)
		if err != nil {
			return nil, fmt.Errorf("parsing start_time: %w", err)
		}
		session.StartTime = start
		if endStr.Valid {
			end, err := parseTime(endStr.String)
			if err != nil {
				return nil, fmt.Errorf("parsing end_time: %w", err)
			}
			session.EndTime = &end
		}

		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// Timestamps are stored in UTC with a fixed-width layout so that string
// comparison in SQL matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
