package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TOMODORO_CONFIG_DIR", "TOMODORO_DB", "TOMODORO_DEBUG", "TOMODORO_LOG_FILE", "TOMODORO_TICK"} {
		t.Setenv(key, "")
	}
}

func TestLoad_ConfigDirOverrideKeepsDatabaseAlongside(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("TOMODORO_CONFIG_DIR", dir)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, dir, cfg.ConfigDir)
	assert.Equal(t, filepath.Join(dir, "tomodoro.db"), cfg.DBPath)
	assert.False(t, cfg.Debug)
	assert.Equal(t, time.Second, cfg.TickInterval)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOMODORO_CONFIG_DIR", t.TempDir())
	t.Setenv("TOMODORO_DB", "/tmp/custom.db")
	t.Setenv("TOMODORO_DEBUG", "true")
	t.Setenv("TOMODORO_LOG_FILE", "/tmp/tomodoro.log")
	t.Setenv("TOMODORO_TICK", "250ms")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/tmp/tomodoro.log", cfg.LogFile)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"TOMODORO_DEBUG", "maybe"},
		{"TOMODORO_TICK", "soon"},
		{"TOMODORO_TICK", "-1s"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TOMODORO_CONFIG_DIR", t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()

			assert.Error(t, err)
		})
	}
}
