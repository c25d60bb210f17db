package desktop

import (
	"tomodoro/internal/core/model"
	"tomodoro/internal/ui/view"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

// TrayCallbacks defines tray action handlers.
type TrayCallbacks struct {
	OnShow        func()
	OnToggle      func()
	OnStop        func()
	OnSwitchMode  func()
	OnHistory     func()
	OnPreferences func()
	OnQuit        func()
}

// Tray mirrors the timer state in the system tray menu.
type Tray struct {
	app        desktop.App
	callbacks  TrayCallbacks
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	stopItem   *fyne.MenuItem
	modeItem   *fyne.MenuItem
	running    bool
}

// NewTray installs the tray menu.
func NewTray(app desktop.App, callbacks TrayCallbacks) *Tray {
	tray := &Tray{app: app, callbacks: callbacks}

	tray.statusItem = fyne.NewMenuItem("tomodoro", func() { run(tray.callbacks.OnShow) })
	tray.toggleItem = fyne.NewMenuItem(view.ActionStart, func() { run(tray.callbacks.OnToggle) })
	tray.stopItem = fyne.NewMenuItem("Stop and save", func() { run(tray.callbacks.OnStop) })
	tray.stopItem.Disabled = true
	tray.modeItem = fyne.NewMenuItem("Switch to break", func() { run(tray.callbacks.OnSwitchMode) })

	tray.refreshMenu()
	tray.app.SetSystemTrayIcon(theme.MediaPauseIcon())
	return tray
}

// Render updates the menu for the current timer state.
func (tray *Tray) Render(controls view.Controls) {
	tray.statusItem.Label = controls.TrayStatus()
	tray.toggleItem.Label = controls.Primary
	tray.stopItem.Disabled = !controls.CanStop
	tray.modeItem.Label = "Switch to " + lower(controls.Mode.Other())
	tray.modeItem.Disabled = !controls.CanToggleMode

	running := controls.Primary == view.ActionPause
	if running != tray.running {
		tray.running = running
		if running {
			tray.app.SetSystemTrayIcon(theme.MediaPlayIcon())
		} else {
			tray.app.SetSystemTrayIcon(theme.MediaPauseIcon())
		}
	}
	tray.refreshMenu()
}

func (tray *Tray) refreshMenu() {
	tray.app.SetSystemTrayMenu(fyne.NewMenu("tomodoro",
		tray.statusItem,
		fyne.NewMenuItemSeparator(),
		tray.toggleItem,
		tray.stopItem,
		tray.modeItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("History", func() { run(tray.callbacks.OnHistory) }),
		fyne.NewMenuItem("Preferences", func() { run(tray.callbacks.OnPreferences) }),
		tray.quitItem(),
	))
}

func (tray *Tray) quitItem() *fyne.MenuItem {
	quit := fyne.NewMenuItem("Quit", func() { run(tray.callbacks.OnQuit) })
	quit.IsQuit = true
	return quit
}

func lower(mode model.Mode) string {
	return string(mode)
}
