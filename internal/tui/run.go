package tui

import (
	"context"
	"fmt"

	tomodoro "tomodoro/internal/app"
	"tomodoro/internal/core/model"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the terminal timer until the user quits or ctx is cancelled.
func Run(ctx context.Context, a *tomodoro.App) error {
	tm, settings := a.NewTimer()
	defer tm.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(
		New(tm, settings, tm.Subscribe(32)),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	go func() {
		err := a.WatchSettings(ctx, tm, func(updated model.Settings) {
			program.Send(SettingsMsg(updated))
		})
		if err != nil {
			a.Logger.Warn("settings watcher stopped", "error", err)
		}
	}()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}
