package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB_InMemory(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	var name string
	err = database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'sessions'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "sessions", name)
}

func TestOpenDB_FileCreatesDirectoryAndIsReopenable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tomodoro.db")

	first, err := OpenDB(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenDB(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestSessionsTable_IsAppendOnly(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO sessions (id, mode, duration_seconds, start_time, created_at)
		VALUES ('s1', 'focus', 60, '2026-01-01T00:00:00Z', '2026-01-01T00:01:00Z')`)
	require.NoError(t, err)

	_, err = database.Exec(`UPDATE sessions SET duration_seconds = 1 WHERE id = 's1'`)
	assert.ErrorContains(t, err, "append-only")

	_, err = database.Exec(`DELETE FROM sessions WHERE id = 's1'`)
	assert.ErrorContains(t, err, "append-only")
}
