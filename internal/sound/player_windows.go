//go:build windows

package sound

import "strings"

func platformCommands(path string) []command {
	quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"
	return []command{{
		name: "powershell",
		args: []string{"-NoProfile", "-Command", "(New-Object Media.SoundPlayer " + quoted + ").PlaySync()"},
	}}
}
