package model

import "fmt"

// Mode is the kind of interval the timer is counting.
type Mode string

const (
	ModeFocus Mode = "focus"
	ModeBreak Mode = "break"
)

// ParseMode converts a stored or user supplied string to a Mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case ModeFocus, ModeBreak:
		return Mode(value), nil
	}
	return "", fmt.Errorf("unknown mode %q", value)
}

// Valid reports whether mode is one of the known modes.
func (mode Mode) Valid() bool {
	return mode == ModeFocus || mode == ModeBreak
}

// Other returns the mode the timer switches to after completion.
func (mode Mode) Other() Mode {
	if mode == ModeFocus {
		return ModeBreak
	}
	return ModeFocus
}

// Title returns the capitalized label used by the front ends.
func (mode Mode) Title() string {
	if mode == ModeBreak {
		return "Break"
	}
	return "Focus"
}
