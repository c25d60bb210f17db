package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Options control logger construction.
type Options struct {
	Debug bool
	// File receives the log when set; otherwise Writer (stderr by default).
	File   string
	Writer io.Writer
}

// New builds the process logger. Logs are discarded unless Debug is set or
// a File is given. The returned close function releases the log file.
func New(options Options) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }

	if !options.Debug && options.File == "" {
		return Discard(), noop, nil
	}

	writer := options.Writer
	closeFn := noop
	if options.File != "" {
		if err := os.MkdirAll(filepath.Dir(options.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(options.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writer = file
		closeFn = file.Close
	}
	if writer == nil {
		writer = os.Stderr
	}

	level := charmlog.InfoLevel
	if options.Debug {
		level = charmlog.DebugLevel
	}
	handler := charmlog.NewWithOptions(writer, charmlog.Options{
		Level:           level,
		Prefix:          "tomodoro",
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return slog.New(handler), closeFn, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
