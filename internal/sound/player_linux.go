//go:build linux

package sound

// platformCommands prefers PulseAudio, then ALSA, then ffmpeg.
func platformCommands(path string) []command {
	return []command{
		{name: "paplay", args: []string{path}},
		{name: "aplay", args: []string{"-q", path}},
		{name: "ffplay", args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}},
	}
}
