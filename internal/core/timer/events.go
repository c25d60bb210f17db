package timer

import (
	"time"

	"tomodoro/internal/core/model"
)

// State represents the lifecycle position of the current attempt.
type State string

const (
	// StateIdle means no attempt is in progress.
	StateIdle State = "idle"
	// StateArmed means an attempt was started and is currently paused.
	StateArmed State = "armed"
	// StateRunning means the countdown is ticking.
	StateRunning State = "running"
)

// EventType defines the type of timer event.
type EventType string

const (
	EventStateChange     EventType = "state_change"
	EventProgress        EventType = "progress"
	EventCompleted       EventType = "completed"
	EventModeChange      EventType = "mode_change"
	EventSessionRecorded EventType = "session_recorded"
	EventError           EventType = "error"
)

// Event represents a timer update for observers.
type Event struct {
	Type      EventType
	State     State
	Mode      model.Mode
	Remaining time.Duration
	Progress  float64
	Session   *model.Session
	Message   string
	At        time.Time
}

// Snapshot is a consistent copy of the timer state.
type Snapshot struct {
	Mode          model.Mode
	State         State
	TimeLeft      int
	Configured    int
	Running       bool
	Reference     int
	HasAttempt    bool
	Progress      float64
	CanToggleMode bool
}

// Remaining returns the time left as a time.Duration.
func (snapshot Snapshot) Remaining() time.Duration {
	return time.Duration(snapshot.TimeLeft) * time.Second
}
