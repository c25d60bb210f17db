package tui

import (
	"testing"
	"time"

	"tomodoro/internal/core/model"
	"tomodoro/internal/core/timer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (Model, *timer.Timer) {
	t.Helper()
	settings := model.DefaultSettings()
	tm := timer.New(settings.TimerConfig(), model.ModeFocus, timer.Config{TickInterval: time.Hour})
	t.Cleanup(tm.Close)
	return New(tm, settings, tm.Subscribe(16)), tm
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated, cmd
}

func TestSpaceTogglesTimer(t *testing.T) {
	m, tm := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, timer.StateRunning, tm.Snapshot().State)

	m, _ = update(t, m, runeKey('p'))
	assert.Equal(t, timer.StateArmed, tm.Snapshot().State)
	assert.Contains(t, m.View(), "paused")
}

func TestSwitchModeOnlyWhenIdle(t *testing.T) {
	m, tm := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, model.ModeBreak, tm.Snapshot().Mode)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = update(t, m, runeKey('f'))
	assert.Equal(t, model.ModeBreak, tm.Snapshot().Mode)
	assert.Contains(t, m.notice, "stop or reset")

	m, _ = update(t, m, runeKey('r'))
	_, _ = update(t, m, runeKey('f'))
	assert.Equal(t, model.ModeFocus, tm.Snapshot().Mode)
}

func TestStopKeyEndsAttempt(t *testing.T) {
	m, tm := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	tm.Tick(30)
	m, _ = update(t, m, runeKey('s'))

	snapshot := tm.Snapshot()
	assert.Equal(t, timer.StateIdle, snapshot.State)
	assert.Equal(t, 25*60, snapshot.TimeLeft)
	assert.Equal(t, "stopped", m.notice)
}

func TestStopKeyIgnoredDuringBreak(t *testing.T) {
	m, tm := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	tm.Tick(10)
	m, _ = update(t, m, runeKey('s'))

	snapshot := tm.Snapshot()
	assert.Equal(t, model.ModeBreak, snapshot.Mode)
	assert.Equal(t, timer.StateRunning, snapshot.State)
	assert.Equal(t, 5*60-10, snapshot.TimeLeft)
	assert.Contains(t, m.notice, "reset")
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := update(t, m, runeKey('q'))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestEventsUpdateNotice(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := update(t, m, eventMsg(timer.Event{Type: timer.EventCompleted, Mode: model.ModeFocus}))
	assert.Contains(t, m.notice, "time for a break")
	assert.NotNil(t, cmd, "keeps listening for events")

	m, _ = update(t, m, eventMsg(timer.Event{
		Type:    timer.EventSessionRecorded,
		Session: &model.Session{Mode: model.ModeFocus, Duration: 1500},
	}))
	assert.Equal(t, "recorded 25:00 of focus", m.notice)

	m, _ = update(t, m, eventMsg(timer.Event{Type: timer.EventError, Message: "disk full"}))
	assert.Contains(t, m.View(), "disk full")
}

func TestWaitForEventReportsClose(t *testing.T) {
	events := make(chan timer.Event, 1)
	events <- timer.Event{Type: timer.EventProgress}

	assert.Equal(t, eventMsg(timer.Event{Type: timer.EventProgress}), waitForEvent(events)())
	close(events)
	assert.Equal(t, eventsClosedMsg{}, waitForEvent(events)())
}

func TestSettingsMsgChangesAccent(t *testing.T) {
	m, _ := newTestModel(t)
	settings := model.DefaultSettings()
	settings.FocusColor = "#10B981"

	m, _ = update(t, m, SettingsMsg(settings))

	assert.Equal(t, "#10B981", m.accent)
	assert.Equal(t, "settings reloaded", m.notice)
}

func TestViewShowsClockAndMode(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	out := m.View()

	assert.Contains(t, out, "25:00")
	assert.Contains(t, out, "Focus")
	assert.Contains(t, out, "Break")
	assert.Equal(t, 60, m.progress.Width)
}
