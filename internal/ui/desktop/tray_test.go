package desktop

import (
	"testing"

	"tomodoro/internal/core/model"
	"tomodoro/internal/core/timer"
	"tomodoro/internal/ui/view"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrayApp struct {
	desktop.App
	menu *fyne.Menu
	icon fyne.Resource
}

func (app *fakeTrayApp) SetSystemTrayMenu(menu *fyne.Menu) { app.menu = menu }

func (app *fakeTrayApp) SetSystemTrayIcon(icon fyne.Resource) { app.icon = icon }

func TestTray_RenderMirrorsTimer(t *testing.T) {
	test.NewTempApp(t)
	app := &fakeTrayApp{}
	quits := 0
	tray := NewTray(app, TrayCallbacks{OnQuit: func() { quits++ }})
	require.NotNil(t, app.menu)

	tray.Render(view.FromSnapshot(timer.Snapshot{
		Mode: model.ModeFocus, State: timer.StateRunning, Running: true, HasAttempt: true,
		TimeLeft: 1499, Configured: 1500, Reference: 1500,
	}, model.DefaultSettings()))

	assert.Equal(t, "Focus 24:59 (running)", tray.statusItem.Label)
	assert.Equal(t, view.ActionPause, tray.toggleItem.Label)
	assert.False(t, tray.stopItem.Disabled)
	assert.True(t, tray.modeItem.Disabled)
	assert.Equal(t, "Switch to break", tray.modeItem.Label)
	assert.Equal(t, theme.MediaPlayIcon().Name(), app.icon.Name())

	tray.Render(view.FromSnapshot(timer.Snapshot{
		Mode: model.ModeBreak, State: timer.StateIdle,
		TimeLeft: 300, Configured: 300, CanToggleMode: true,
	}, model.DefaultSettings()))

	assert.True(t, tray.stopItem.Disabled)
	assert.False(t, tray.modeItem.Disabled)
	assert.Equal(t, "Switch to focus", tray.modeItem.Label)
	assert.Equal(t, theme.MediaPauseIcon().Name(), app.icon.Name())

	last := app.menu.Items[len(app.menu.Items)-1]
	assert.True(t, last.IsQuit)
	last.Action()
	assert.Equal(t, 1, quits)
}
