package cli

import (
	"os"
	"path/filepath"

	"tomodoro/internal/config"

	"github.com/mattn/go-isatty"
)

type fdWriter interface {
	Fd() uintptr
}

// isTerminal reports whether stream is an interactive terminal.
func isTerminal(stream any) bool {
	file, ok := stream.(fdWriter)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok && os.Getenv(key) != ""
}

func defaultDBPath(configDir string) string {
	return filepath.Join(configDir, config.AppName+".db")
}
