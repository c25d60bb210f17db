// Package app wires the stores, the sound service and the timer together
// for the front ends.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"tomodoro/internal/config"
	"tomodoro/internal/core/model"
	"tomodoro/internal/core/timer"
	"tomodoro/internal/db"
	"tomodoro/internal/logging"
	"tomodoro/internal/sound"
	"tomodoro/internal/storage"
)

// App holds the long-lived collaborators of one process.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Settings *storage.SettingsStore
	Sessions *storage.SessionLog
	Sound    *sound.Service

	db     *sql.DB
	ticker timer.TickerFactory
}

// Option customizes Open.
type Option func(*openOptions)

type openOptions struct {
	logger    *slog.Logger
	player    sound.Player
	ticker    timer.TickerFactory
	bellMuted bool
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(options *openOptions) { options.logger = logger }
}

// WithSoundPlayer replaces the platform audio player.
func WithSoundPlayer(player sound.Player) Option {
	return func(options *openOptions) { options.player = player }
}

// WithTicker replaces the wall clock tick source.
func WithTicker(factory timer.TickerFactory) Option {
	return func(options *openOptions) { options.ticker = factory }
}

// WithoutBell suppresses the terminal bell fallback, for full-screen
// terminal front ends.
func WithoutBell() Option {
	return func(options *openOptions) { options.bellMuted = true }
}

// Open opens the session database and the settings store described by cfg.
func Open(cfg *config.Config, opts ...Option) (*App, error) {
	options := openOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = logging.Discard()
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening session log: %w", err)
	}

	settings := storage.NewSettingsStore(cfg.ConfigDir, options.logger)
	current, err := settings.Load()
	if err != nil {
		options.logger.Warn("settings unreadable, using defaults", "path", settings.Path(), "error", err)
	}

	soundOptions := sound.Options{
		CacheDir: filepath.Join(cfg.ConfigDir, "sounds"),
		Volume:   current.Volume,
		Player:   options.player,
		Logger:   options.logger,
	}
	if options.bellMuted {
		soundOptions.Bell = io.Discard
	}

	return &App{
		Config:   cfg,
		Logger:   options.logger,
		Settings: settings,
		Sessions: storage.NewSessionLog(database),
		Sound:    sound.NewService(soundOptions),
		db:       database,
		ticker:   options.ticker,
	}, nil
}

// NewTimer builds a timer from the stored settings, connected to the session
// log, the settings store and the sound service.
func (app *App) NewTimer() (*timer.Timer, model.Settings) {
	settings, err := app.Settings.Load()
	if err != nil {
		app.Logger.Warn("settings unreadable, using defaults", "error", err)
	}

	t := timer.New(settings.TimerConfig(), settings.Mode, timer.Config{
		TickInterval: app.Config.TickInterval,
		NewTicker:    app.ticker,
		Logger:       app.Logger,
	})
	t.SetSessionLog(app.Sessions)
	t.SetModeStore(app.Settings)
	t.SetSoundPlayer(app.Sound)
	app.Sound.SetVolume(settings.Volume)
	return t, settings
}

// Apply pushes changed settings into a running timer and the sound service.
// A changed mode is taken over only while the timer has no attempt in
// progress; otherwise the timer keeps its mode.
func (app *App) Apply(t *timer.Timer, settings model.Settings) {
	t.UpdateConfig(settings.TimerConfig())
	if settings.Mode != t.Snapshot().Mode && !t.SetMode(settings.Mode) {
		app.Logger.Info("external mode change ignored, attempt in progress", "mode", settings.Mode)
	}
	app.Sound.SetVolume(settings.Volume)
}

// WatchSettings applies external edits of the settings file to t and then
// calls onChange, until ctx is cancelled. onChange may be nil.
func (app *App) WatchSettings(ctx context.Context, t *timer.Timer, onChange func(model.Settings)) error {
	return storage.WatchSettings(ctx, app.Settings, func(settings model.Settings) {
		app.Apply(t, settings)
		if onChange != nil {
			onChange(settings)
		}
	})
}

// Close waits for pending sounds and closes the database.
func (app *App) Close() error {
	return errors.Join(app.Sound.Close(), app.db.Close())
}
