// Package tui is the terminal front end of the timer.
package tui

import (
	"fmt"
	"strings"

	"tomodoro/internal/core/history"
	"tomodoro/internal/core/model"
	"tomodoro/internal/core/timer"
	"tomodoro/internal/ui/view"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Controller is the part of the timer the terminal UI drives.
type Controller interface {
	Toggle() bool
	Reset() bool
	StopAndSave() bool
	SetMode(mode model.Mode) bool
	Snapshot() timer.Snapshot
}

type eventMsg timer.Event

type eventsClosedMsg struct{}

// SettingsMsg carries settings reloaded from disk.
type SettingsMsg model.Settings

// Model is the bubbletea model of the terminal timer.
type Model struct {
	timer    Controller
	events   <-chan timer.Event
	settings model.Settings
	keys     KeyMap
	help     help.Model
	progress progress.Model
	accent   string
	notice   string
	failure  string
	width    int
}

// New creates the terminal model. events should come from the timer's
// Subscribe.
func New(controller Controller, settings model.Settings, events <-chan timer.Event) Model {
	m := Model{
		timer:    controller,
		events:   events,
		settings: settings,
		keys:     DefaultKeyMap(),
		help:     help.New(),
	}
	m.syncAccent()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = progressWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case eventMsg:
		m.handleEvent(timer.Event(msg))
		m.syncAccent()
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		return m, tea.Quit

	case SettingsMsg:
		m.settings = model.Settings(msg)
		m.notice = "settings reloaded"
		m.syncAccent()
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.failure = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Toggle):
		m.timer.Toggle()
	case key.Matches(msg, m.keys.Reset):
		m.timer.Reset()
	case key.Matches(msg, m.keys.Stop):
		if !view.FromSnapshot(m.timer.Snapshot(), m.settings).CanStop {
			m.notice = "nothing to stop, press r to reset"
		} else if m.timer.StopAndSave() {
			m.notice = "stopped"
		}
	case key.Matches(msg, m.keys.Switch):
		m.trySetMode(m.timer.Snapshot().Mode.Other())
	case key.Matches(msg, m.keys.Focus):
		m.trySetMode(model.ModeFocus)
	case key.Matches(msg, m.keys.Break):
		m.trySetMode(model.ModeBreak)
	}
	m.syncAccent()
	return m, nil
}

func (m *Model) trySetMode(mode model.Mode) {
	snapshot := m.timer.Snapshot()
	if mode == snapshot.Mode {
		return
	}
	if !m.timer.SetMode(mode) {
		m.notice = "stop or reset the timer to switch mode"
	}
}

func (m *Model) handleEvent(event timer.Event) {
	switch event.Type {
	case timer.EventCompleted:
		if event.Mode == model.ModeFocus {
			m.notice = "focus finished, time for a break"
		} else {
			m.notice = "break is over, ready to focus?"
		}
	case timer.EventSessionRecorded:
		if event.Session != nil {
			m.notice = fmt.Sprintf("recorded %s of focus", history.FormatClock(event.Session.Duration))
		}
	case timer.EventError:
		m.failure = event.Message
	}
}

// syncAccent rebuilds the progress bar when the mode color changes.
func (m *Model) syncAccent() {
	accent := m.settings.Color(m.timer.Snapshot().Mode)
	if accent == m.accent {
		return
	}
	m.accent = accent
	width := m.progress.Width
	m.progress = progress.New(progress.WithSolidFill(accent), progress.WithoutPercentage())
	if width > 0 {
		m.progress.Width = width
	}
}

// View implements tea.Model.
func (m Model) View() string {
	controls := view.FromSnapshot(m.timer.Snapshot(), m.settings)
	accent := lipgloss.Color(controls.Color)

	var tabs []string
	for _, mode := range []model.Mode{model.ModeFocus, model.ModeBreak} {
		if mode == controls.Mode {
			tabs = append(tabs, activeTabStyle(accent).Render(mode.Title()))
		} else {
			tabs = append(tabs, tabStyle.Render(mode.Title()))
		}
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(clockStyle.Foreground(accent).Render(controls.Clock))
	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(controls.Progress))
	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("%s  [%s]", controls.Status, strings.ToLower(controls.Primary))))
	b.WriteString("\n")
	if m.failure != "" {
		b.WriteString(errorStyle.Render(m.failure))
	} else if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return appStyle.Render(b.String())
}

func waitForEvent(events <-chan timer.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(event)
	}
}

func progressWidth(termWidth int) int {
	const (
		minWidth = 10
		maxWidth = 60
		padding  = 4
	)
	width := termWidth - padding
	if width > maxWidth {
		width = maxWidth
	}
	if width < minWidth {
		width = minWidth
	}
	return width
}
