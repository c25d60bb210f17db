package model

import "time"

// TimerConfig contains runtime settings for the timer state machine.
type TimerConfig struct {
	FocusDuration time.Duration
	BreakDuration time.Duration
	FocusSound    string
	BreakSound    string
}

// Duration returns the configured interval length for mode.
func (config TimerConfig) Duration(mode Mode) time.Duration {
	if mode == ModeBreak {
		return config.BreakDuration
	}
	return config.FocusDuration
}

// DurationSeconds returns the configured interval length for mode in whole seconds.
func (config TimerConfig) DurationSeconds(mode Mode) int {
	return int(config.Duration(mode) / time.Second)
}

// Sound returns the completion sound configured for mode.
func (config TimerConfig) Sound(mode Mode) string {
	if mode == ModeBreak {
		return config.BreakSound
	}
	return config.FocusSound
}
