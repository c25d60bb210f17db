//go:build darwin

package sound

func platformCommands(path string) []command {
	return []command{{name: "afplay", args: []string{path}}}
}
