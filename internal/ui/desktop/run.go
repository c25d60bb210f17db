// Package desktop is the fyne front end: timer window, tray menu,
// preferences and history.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	tomodoro "tomodoro/internal/app"
	"tomodoro/internal/config"
	"tomodoro/internal/core/model"
	"tomodoro/internal/core/timer"
	"tomodoro/internal/platform"
	"tomodoro/internal/ui/view"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const appID = "dev.tomodoro.app"

// Run starts the desktop app and blocks until it quits. A second launch
// brings the running instance to the front and returns nil.
func Run(ctx context.Context, a *tomodoro.App) error {
	var (
		mu          sync.Mutex
		timerWindow *TimerWindow
	)
	activate := func() {
		fyne.Do(func() {
			mu.Lock()
			defer mu.Unlock()
			if timerWindow != nil {
				timerWindow.Show()
			}
		})
	}

	guard, err := platform.AcquireSingleInstance(config.AppName, activate)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			a.Logger.Info("already running, activated existing window")
			return nil
		}
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := fyneapp.NewWithID(appID)
	tm, settings := a.NewTimer()
	defer tm.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		prefsWindow   *PreferencesWindow
		historyWindow *HistoryWindow
		tray          *Tray
	)

	render := func() {
		controls := view.FromSnapshot(tm.Snapshot(), settings)
		timerWindow.Render(controls)
		if tray != nil {
			tray.Render(controls)
		}
	}

	applySettings := func(updated model.Settings) {
		settings = updated
		a.Apply(tm, updated)
		prefsWindow.UpdateSettings(updated)
		render()
	}

	saveSettings := preferencesSaver(a.Settings, tm, a.Logger, func(message string) {
		fyneApp.SendNotification(fyne.NewNotification("tomodoro", message))
	}, applySettings)
	prefsWindow = NewPreferencesWindow(fyneApp, settings, saveSettings, a.Sound.PlayAt)

	historyWindow = NewHistoryWindow(fyneApp, a.Sessions, a.Logger)

	mu.Lock()
	timerWindow = NewTimerWindow(fyneApp, TimerActions{
		OnToggle:      func() { tm.Toggle() },
		OnReset:       func() { tm.Reset() },
		OnStop:        func() { tm.StopAndSave() },
		OnMode:        func(mode model.Mode) { tm.SetMode(mode) },
		OnPreferences: prefsWindow.Show,
		OnHistory:     historyWindow.Show,
	})
	mu.Unlock()

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		tray = NewTray(desktopApp, TrayCallbacks{
			OnShow:        timerWindow.Show,
			OnToggle:      func() { tm.Toggle() },
			OnStop:        func() { tm.StopAndSave() },
			OnSwitchMode:  func() { tm.SetMode(tm.Snapshot().Mode.Other()) },
			OnHistory:     historyWindow.Show,
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		timerWindow.Window().SetCloseIntercept(func() {
			timerWindow.Window().Hide()
		})
	} else {
		a.Logger.Info("system tray unsupported on this platform")
		timerWindow.Window().SetMaster()
	}

	events := tm.Subscribe(32)
	go func() {
		for event := range events {
			fyne.Do(func() {
				handleEvent(fyneApp, event, historyWindow.Refresh)
				render()
			})
		}
	}()

	go func() {
		err := a.WatchSettings(ctx, tm, func(updated model.Settings) {
			fyne.Do(func() {
				settings = updated
				prefsWindow.UpdateSettings(updated)
				render()
			})
		})
		if err != nil {
			a.Logger.Warn("settings watcher stopped", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	render()
	timerWindow.Show()
	fyneApp.Run()
	return nil
}

// SettingsSaver persists settings edited in the preferences window.
type SettingsSaver interface {
	Save(settings model.Settings) error
}

// preferencesSaver returns the preferences save handler. The stored mode is
// always the timer's, whatever the form held; apply runs only after a
// successful save.
func preferencesSaver(store SettingsSaver, tm *timer.Timer, logger *slog.Logger, notify func(string), apply func(model.Settings)) func(model.Settings) {
	return func(updated model.Settings) {
		updated.Mode = tm.Snapshot().Mode
		if err := store.Save(updated); err != nil {
			logger.Error("save settings", "error", err)
			notify("Could not save settings: " + err.Error())
			return
		}
		apply(updated)
	}
}

func handleEvent(fyneApp fyne.App, event timer.Event, onRecorded func()) {
	switch event.Type {
	case timer.EventCompleted:
		message := "Focus finished. Time for a break."
		if event.Mode == model.ModeBreak {
			message = "Break is over. Ready to focus?"
		}
		fyneApp.SendNotification(fyne.NewNotification("tomodoro", message))
	case timer.EventSessionRecorded:
		run(onRecorded)
	case timer.EventError:
		fyneApp.SendNotification(fyne.NewNotification("tomodoro", event.Message))
	}
}
