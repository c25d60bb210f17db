// Package view turns timer snapshots into what the front ends display.
package view

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"tomodoro/internal/core/history"
	"tomodoro/internal/core/model"
	"tomodoro/internal/core/timer"
)

// Primary action labels.
const (
	ActionStart  = "Start"
	ActionPause  = "Pause"
	ActionResume = "Resume"
)

// Controls describes the timer screen for one snapshot. Stop is offered only
// for a focus attempt; a break is ended with reset.
type Controls struct {
	Mode          model.Mode
	Title         string
	Clock         string
	Progress      float64
	Color         string
	Primary       string
	Status        string
	CanStop       bool
	CanReset      bool
	CanToggleMode bool
}

// FromSnapshot derives the controls for snapshot using the colors in settings.
func FromSnapshot(snapshot timer.Snapshot, settings model.Settings) Controls {
	controls := Controls{
		Mode:          snapshot.Mode,
		Title:         snapshot.Mode.Title(),
		Clock:         history.FormatClock(snapshot.TimeLeft),
		Progress:      snapshot.Progress,
		Color:         settings.Color(snapshot.Mode),
		CanStop:       snapshot.Mode == model.ModeFocus && (snapshot.Running || snapshot.HasAttempt),
		CanReset:      snapshot.HasAttempt || snapshot.TimeLeft != snapshot.Configured,
		CanToggleMode: snapshot.CanToggleMode,
	}

	switch snapshot.State {
	case timer.StateRunning:
		controls.Primary = ActionPause
		controls.Status = "running"
	case timer.StateArmed:
		controls.Primary = ActionResume
		controls.Status = "paused"
	default:
		controls.Primary = ActionStart
		controls.Status = "ready"
	}
	return controls
}

// TrayStatus is the one-line status shown in the tray menu.
func (controls Controls) TrayStatus() string {
	return fmt.Sprintf("%s %s (%s)", controls.Title, controls.Clock, controls.Status)
}

// ParseHexColor converts #RRGGBB to an opaque color.
func ParseHexColor(value string) (color.NRGBA, error) {
	if !model.ValidColor(value) {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", value)
	}
	rgb, err := strconv.ParseUint(strings.TrimPrefix(value, "#"), 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", value, err)
	}
	return color.NRGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}, nil
}

// Tint returns c with its alpha replaced, for translucent backgrounds.
func Tint(c color.NRGBA, alpha uint8) color.NRGBA {
	c.A = alpha
	return c
}
