package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DiscardsWithoutDebugOrFile(t *testing.T) {
	var buf bytes.Buffer

	logger, closeFn, err := New(Options{Writer: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestNew_DebugWritesToWriter(t *testing.T) {
	var buf bytes.Buffer

	logger, closeFn, err := New(Options{Debug: true, Writer: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.Debug("tick", "remaining", 42)
	assert.Contains(t, buf.String(), "tick")
	assert.Contains(t, buf.String(), "remaining=42")
}

func TestNew_FileReceivesInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tomodoro.log")

	logger, closeFn, err := New(Options{File: path})
	require.NoError(t, err)
	logger.Debug("not at info level")
	logger.Info("session recorded", "seconds", 1500)
	require.NoError(t, closeFn())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "session recorded")
	assert.NotContains(t, string(raw), "not at info level")
}
