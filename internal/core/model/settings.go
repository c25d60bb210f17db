package model

import (
	"regexp"
	"strings"
	"time"
)

const (
	MinFocusMinutes = 1
	MaxFocusMinutes = 60
	MinBreakMinutes = 1
	MaxBreakMinutes = 30
)

// Sound identifiers understood by the sound service.
const (
	SoundBell         = "bell"
	SoundChime        = "chime"
	SoundDing         = "ding"
	SoundGong         = "gong"
	SoundNotification = "notification"
)

// Sounds lists the selectable completion sounds in picker order.
var Sounds = []string{SoundBell, SoundChime, SoundDing, SoundGong, SoundNotification}

// ColorPreset is a named accent color offered by the preferences UI.
type ColorPreset struct {
	Name  string
	Value string
}

// ColorPresets lists the accent colors offered by the preferences UI.
var ColorPresets = []ColorPreset{
	{Name: "Purple", Value: "#8B5CF6"},
	{Name: "Blue", Value: "#3B82F6"},
	{Name: "Green", Value: "#10B981"},
	{Name: "Amber", Value: "#F59E0B"},
	{Name: "Red", Value: "#EF4444"},
	{Name: "Pink", Value: "#EC4899"},
	{Name: "Orange", Value: "#F97316"},
	{Name: "Teal", Value: "#14B8A6"},
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Settings defines editable user preferences.
type Settings struct {
	Mode          Mode
	FocusDuration time.Duration
	BreakDuration time.Duration
	FocusColor    string
	BreakColor    string
	FocusSound    string
	BreakSound    string
	Volume        float64
}

// DefaultSettings returns default settings for tomodoro.
func DefaultSettings() Settings {
	return Settings{
		Mode:          ModeFocus,
		FocusDuration: 25 * time.Minute,
		BreakDuration: 5 * time.Minute,
		FocusColor:    "#8B5CF6",
		BreakColor:    "#F97316",
		FocusSound:    SoundBell,
		BreakSound:    SoundChime,
		Volume:        0.7,
	}
}

// TimerConfig converts settings to TimerConfig.
func (settings Settings) TimerConfig() TimerConfig {
	return TimerConfig{
		FocusDuration: settings.FocusDuration,
		BreakDuration: settings.BreakDuration,
		FocusSound:    settings.FocusSound,
		BreakSound:    settings.BreakSound,
	}
}

// Color returns the accent color for mode.
func (settings Settings) Color(mode Mode) string {
	if mode == ModeBreak {
		return settings.BreakColor
	}
	return settings.FocusColor
}

// Normalize replaces every invalid field with its default and reports the
// names of the fields it replaced.
func (settings Settings) Normalize() (Settings, []string) {
	defaults := DefaultSettings()
	var replaced []string

	if !settings.Mode.Valid() {
		settings.Mode = defaults.Mode
		replaced = append(replaced, "mode")
	}
	if !durationInRange(settings.FocusDuration, MinFocusMinutes, MaxFocusMinutes) {
		settings.FocusDuration = defaults.FocusDuration
		replaced = append(replaced, "focus_duration")
	}
	if !durationInRange(settings.BreakDuration, MinBreakMinutes, MaxBreakMinutes) {
		settings.BreakDuration = defaults.BreakDuration
		replaced = append(replaced, "break_duration")
	}
	if !ValidColor(settings.FocusColor) {
		settings.FocusColor = defaults.FocusColor
		replaced = append(replaced, "focus_color")
	}
	if !ValidColor(settings.BreakColor) {
		settings.BreakColor = defaults.BreakColor
		replaced = append(replaced, "break_color")
	}
	if !ValidSound(settings.FocusSound) {
		settings.FocusSound = defaults.FocusSound
		replaced = append(replaced, "focus_sound")
	}
	if !ValidSound(settings.BreakSound) {
		settings.BreakSound = defaults.BreakSound
		replaced = append(replaced, "break_sound")
	}
	if settings.Volume < 0 || settings.Volume > 1 {
		settings.Volume = defaults.Volume
		replaced = append(replaced, "volume")
	}

	settings.FocusColor = strings.ToUpper(settings.FocusColor)
	settings.BreakColor = strings.ToUpper(settings.BreakColor)
	return settings, replaced
}

// ValidColor reports whether value is a #RRGGBB color.
func ValidColor(value string) bool {
	return hexColorPattern.MatchString(value)
}

// ValidSound reports whether id names a known sound.
func ValidSound(id string) bool {
	for _, sound := range Sounds {
		if sound == id {
			return true
		}
	}
	return false
}

func durationInRange(value time.Duration, minMinutes, maxMinutes int) bool {
	if value%time.Minute != 0 {
		return false
	}
	minutes := int(value / time.Minute)
	return minutes >= minMinutes && minutes <= maxMinutes
}
