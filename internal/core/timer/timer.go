package timer

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"tomodoro/internal/core/model"
)

// SessionLog receives completed focus sessions.
type SessionLog interface {
	Append(ctx context.Context, session model.Session) error
}

// ModeStore persists the current mode.
type ModeStore interface {
	SaveMode(mode model.Mode) error
}

// SoundPlayer plays a completion sound. Play must not block and must not fail.
type SoundPlayer interface {
	Play(soundID string)
}

// Config contains runtime options for Timer.
type Config struct {
	TickInterval time.Duration
	NewTicker    TickerFactory
	Now          func() time.Time
	Logger       *slog.Logger
}

// Timer is the focus/break state machine. Every firing of the tick source
// counts as one second of the interval.
type Timer struct {
	mu           sync.Mutex
	config       model.TimerConfig
	options      Config
	mode         model.Mode
	timeLeft     int
	running      bool
	reference    int
	hasAttempt   bool
	attemptStart time.Time
	sessions     SessionLog
	modes        ModeStore
	sound        SoundPlayer
	events       []chan Event
	stopCh       chan struct{}
	closed       bool

	// saveMu orders mode writes; each write stores the mode current at the
	// time it runs.
	saveMu sync.Mutex
}

// effects are collaborator calls collected under the lock and executed
// after it is released.
type effects struct {
	sound   string
	session *model.Session
	mode    *model.Mode
}

// New creates a Timer for mode with the provided configuration.
func New(config model.TimerConfig, mode model.Mode, options Config) *Timer {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.NewTicker == nil {
		options.NewTicker = NewWallTicker
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !mode.Valid() {
		mode = model.ModeFocus
	}

	timer := &Timer{
		config:  sanitizeConfig(config),
		options: options,
		mode:    mode,
	}
	timer.resetLocked()
	return timer
}

// SetSessionLog injects the session log.
func (timer *Timer) SetSessionLog(sessions SessionLog) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.sessions = sessions
}

// SetModeStore injects the mode persistence port.
func (timer *Timer) SetModeStore(modes ModeStore) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.modes = modes
}

// SetSoundPlayer injects the sound collaborator.
func (timer *Timer) SetSoundPlayer(player SoundPlayer) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.sound = player
}

// Subscribe registers a new observer channel. Slow observers miss events.
func (timer *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		close(ch)
		return ch
	}
	timer.events = append(timer.events, ch)
	return ch
}

// Start begins or resumes the countdown.
func (timer *Timer) Start() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed || timer.running || timer.timeLeft <= 0 {
		return false
	}
	if !timer.hasAttempt {
		timer.hasAttempt = true
		timer.reference = timer.timeLeft
		timer.attemptStart = timer.options.Now()
	}
	timer.running = true
	timer.acquireTickerLocked()
	timer.emitStateLocked()
	return true
}

// Pause freezes the countdown and keeps the attempt.
func (timer *Timer) Pause() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if !timer.running {
		return false
	}
	timer.running = false
	timer.releaseTickerLocked()
	timer.emitStateLocked()
	return true
}

// Toggle starts a stopped timer or pauses a running one.
func (timer *Timer) Toggle() bool {
	timer.mu.Lock()
	running := timer.running
	timer.mu.Unlock()
	if running {
		return timer.Pause()
	}
	return timer.Start()
}

// Tick advances a running countdown by delta seconds.
func (timer *Timer) Tick(delta int) bool {
	timer.mu.Lock()
	applied, fx := timer.tickLocked(delta)
	timer.mu.Unlock()
	timer.apply(fx)
	return applied
}

// Reset discards the attempt and restores the full duration.
func (timer *Timer) Reset() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		return false
	}
	timer.resetLocked()
	timer.emitStateLocked()
	return true
}

// StopAndSave ends the attempt, recording the elapsed focus time.
func (timer *Timer) StopAndSave() bool {
	timer.mu.Lock()
	if !timer.running && !timer.hasAttempt {
		timer.mu.Unlock()
		return false
	}
	var fx effects
	if timer.mode == model.ModeFocus && timer.hasAttempt {
		fx.session = timer.newSessionLocked(timer.reference - timer.timeLeft)
	}
	timer.resetLocked()
	timer.emitStateLocked()
	timer.mu.Unlock()

	timer.apply(fx)
	return true
}

// SetMode switches between focus and break while no attempt is in progress.
func (timer *Timer) SetMode(mode model.Mode) bool {
	timer.mu.Lock()
	if !mode.Valid() || mode == timer.mode || !timer.canToggleModeLocked() {
		timer.mu.Unlock()
		return false
	}
	timer.mode = mode
	timer.resetLocked()
	timer.emitLocked(Event{
		Type:      EventModeChange,
		State:     StateIdle,
		Mode:      mode,
		Remaining: timer.remainingLocked(),
		At:        timer.options.Now(),
	})
	timer.mu.Unlock()

	timer.apply(effects{mode: &mode})
	return true
}

// UpdateConfig applies changed settings. A new duration for the active mode
// resets the timer even while an attempt is in progress.
func (timer *Timer) UpdateConfig(config model.TimerConfig) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	config = sanitizeConfig(config)
	previous := timer.config.DurationSeconds(timer.mode)
	timer.config = config
	if config.DurationSeconds(timer.mode) == previous {
		return
	}
	timer.resetLocked()
	timer.emitStateLocked()
}

// CanToggleMode reports whether SetMode would be accepted.
func (timer *Timer) CanToggleMode() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.canToggleModeLocked()
}

// Snapshot returns a copy of the current state.
func (timer *Timer) Snapshot() Snapshot {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return Snapshot{
		Mode:          timer.mode,
		State:         timer.stateLocked(),
		TimeLeft:      timer.timeLeft,
		Configured:    timer.configuredLocked(),
		Running:       timer.running,
		Reference:     timer.reference,
		HasAttempt:    timer.hasAttempt,
		Progress:      timer.progressLocked(),
		CanToggleMode: timer.canToggleModeLocked(),
	}
}

// Close releases the tick source and closes observers.
func (timer *Timer) Close() {
	timer.mu.Lock()
	if timer.closed {
		timer.mu.Unlock()
		return
	}
	timer.closed = true
	timer.running = false
	timer.releaseTickerLocked()
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (timer *Timer) run(ticker Ticker, stop chan struct{}) {
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			timer.tickFrom(stop)
		}
	}
}

func (timer *Timer) tickFrom(stop chan struct{}) {
	timer.mu.Lock()
	if timer.stopCh != stop {
		// The source was released while this tick was in flight.
		timer.mu.Unlock()
		return
	}
	_, fx := timer.tickLocked(1)
	timer.mu.Unlock()
	timer.apply(fx)
}

func (timer *Timer) tickLocked(delta int) (bool, effects) {
	if !timer.running || delta <= 0 {
		return false, effects{}
	}
	timer.timeLeft -= delta
	if timer.timeLeft < 0 {
		timer.timeLeft = 0
	}
	if timer.timeLeft > 0 {
		timer.emitLocked(Event{
			Type:      EventProgress,
			State:     StateRunning,
			Mode:      timer.mode,
			Remaining: timer.remainingLocked(),
			Progress:  timer.progressLocked(),
			At:        timer.options.Now(),
		})
		return true, effects{}
	}
	return true, timer.completeLocked()
}

func (timer *Timer) completeLocked() effects {
	timer.running = false
	timer.releaseTickerLocked()

	completed := timer.mode
	fx := effects{sound: timer.config.Sound(completed)}
	if completed == model.ModeFocus && timer.hasAttempt {
		fx.session = timer.newSessionLocked(timer.reference - timer.timeLeft)
	}

	now := timer.options.Now()
	timer.emitLocked(Event{
		Type:     EventCompleted,
		State:    StateIdle,
		Mode:     completed,
		Progress: 1,
		At:       now,
	})

	next := completed.Other()
	timer.mode = next
	fx.mode = &next
	timer.resetLocked()
	timer.emitLocked(Event{
		Type:      EventModeChange,
		State:     StateIdle,
		Mode:      next,
		Remaining: timer.remainingLocked(),
		At:        now,
	})
	return fx
}

func (timer *Timer) apply(fx effects) {
	timer.mu.Lock()
	sessions, modes, sound := timer.sessions, timer.modes, timer.sound
	timer.mu.Unlock()
	logger := timer.options.Logger

	if fx.sound != "" && sound != nil {
		sound.Play(fx.sound)
	}

	if fx.session != nil && sessions != nil {
		if err := sessions.Append(context.Background(), *fx.session); err != nil {
			logger.Error("record session", "error", err, "duration", fx.session.Duration)
			timer.emit(Event{Type: EventError, Mode: fx.session.Mode, Message: err.Error(), At: timer.options.Now()})
		} else {
			logger.Info("session recorded", "mode", fx.session.Mode, "duration", fx.session.Duration)
			session := *fx.session
			timer.emit(Event{Type: EventSessionRecorded, Mode: session.Mode, Session: &session, At: timer.options.Now()})
		}
	}

	if fx.mode != nil && modes != nil {
		timer.saveMode(modes)
	}
}

func (timer *Timer) saveMode(modes ModeStore) {
	timer.saveMu.Lock()
	defer timer.saveMu.Unlock()

	timer.mu.Lock()
	mode := timer.mode
	timer.mu.Unlock()

	if err := modes.SaveMode(mode); err != nil {
		timer.options.Logger.Error("persist mode", "error", err, "mode", mode)
		timer.emit(Event{Type: EventError, Mode: mode, Message: err.Error(), At: timer.options.Now()})
	}
}

func (timer *Timer) newSessionLocked(elapsed int) *model.Session {
	if elapsed < 0 {
		elapsed = 0
	}
	end := timer.options.Now()
	start := timer.attemptStart
	if start.IsZero() {
		start = end.Add(-time.Duration(elapsed) * time.Second)
	}
	return &model.Session{
		Mode:      timer.mode,
		Duration:  elapsed,
		StartTime: start,
		EndTime:   &end,
	}
}

func (timer *Timer) resetLocked() {
	timer.running = false
	timer.releaseTickerLocked()
	timer.timeLeft = timer.configuredLocked()
	timer.hasAttempt = false
	timer.reference = 0
	timer.attemptStart = time.Time{}
}

func (timer *Timer) acquireTickerLocked() {
	if timer.stopCh != nil {
		return
	}
	stop := make(chan struct{})
	timer.stopCh = stop
	go timer.run(timer.options.NewTicker(timer.options.TickInterval), stop)
}

func (timer *Timer) releaseTickerLocked() {
	if timer.stopCh == nil {
		return
	}
	close(timer.stopCh)
	timer.stopCh = nil
}

func (timer *Timer) stateLocked() State {
	switch {
	case timer.running:
		return StateRunning
	case timer.hasAttempt:
		return StateArmed
	default:
		return StateIdle
	}
}

func (timer *Timer) canToggleModeLocked() bool {
	return !timer.running && !timer.hasAttempt
}

func (timer *Timer) configuredLocked() int {
	return timer.config.DurationSeconds(timer.mode)
}

func (timer *Timer) remainingLocked() time.Duration {
	return time.Duration(timer.timeLeft) * time.Second
}

func (timer *Timer) progressLocked() float64 {
	total := timer.configuredLocked()
	if total <= 0 {
		return 0
	}
	progress := float64(total-timer.timeLeft) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (timer *Timer) emitStateLocked() {
	timer.emitLocked(Event{
		Type:      EventStateChange,
		State:     timer.stateLocked(),
		Mode:      timer.mode,
		Remaining: timer.remainingLocked(),
		Progress:  timer.progressLocked(),
		At:        timer.options.Now(),
	})
}

func (timer *Timer) emit(event Event) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.emitLocked(event)
}

func (timer *Timer) emitLocked(event Event) {
	for _, ch := range timer.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func sanitizeConfig(config model.TimerConfig) model.TimerConfig {
	defaults := model.DefaultSettings()
	if config.FocusDuration < time.Second {
		config.FocusDuration = defaults.FocusDuration
	}
	if config.BreakDuration < time.Second {
		config.BreakDuration = defaults.BreakDuration
	}
	return config
}
