package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"tomodoro/internal/core/model"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

// ErrInvalidSetting is returned by Set for unknown keys or malformed values.
var ErrInvalidSetting = errors.New("invalid setting")

type yamlSettings struct {
	Mode          string   `yaml:"mode"`
	FocusDuration int      `yaml:"focus_duration"`
	BreakDuration int      `yaml:"break_duration"`
	FocusColor    string   `yaml:"focus_color"`
	BreakColor    string   `yaml:"break_color"`
	FocusSound    string   `yaml:"focus_sound"`
	BreakSound    string   `yaml:"break_sound"`
	Volume        *float64 `yaml:"volume,omitempty"`
}

// SettingsStore reads and writes user preferences as YAML.
type SettingsStore struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewSettingsStore creates a store for <dir>/settings.yaml.
func NewSettingsStore(dir string, logger *slog.Logger) *SettingsStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SettingsStore{
		path:   filepath.Join(dir, settingsFileName),
		logger: logger,
	}
}

// Path returns the settings file location.
func (store *SettingsStore) Path() string {
	return store.path
}

// Load reads user preferences from YAML.
// If the file does not exist, default settings are returned. Fields that are
// missing or invalid fall back to their defaults; a file that cannot be parsed
// yields the defaults together with the parse error.
func (store *SettingsStore) Load() (model.Settings, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.loadLocked()
}

// Save writes user preferences to YAML.
func (store *SettingsStore) Save(settings model.Settings) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.saveLocked(settings)
}

// SaveMode persists the current timer mode, keeping every other preference.
func (store *SettingsStore) SaveMode(mode model.Mode) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	settings, err := store.loadLocked()
	if err != nil {
		store.logger.Warn("settings unreadable, rewriting with defaults", "error", err)
	}
	if settings.Mode == mode {
		return nil
	}
	settings.Mode = mode
	return store.saveLocked(settings)
}

// Set updates a single preference addressed by its file key, e.g.
// "focus_duration" or "break_color".
func (store *SettingsStore) Set(key, value string) (model.Settings, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	settings, err := store.loadLocked()
	if err != nil {
		store.logger.Warn("settings unreadable, starting from defaults", "error", err)
	}
	updated, err := applySetting(settings, key, value)
	if err != nil {
		return settings, err
	}
	if err := store.saveLocked(updated); err != nil {
		return settings, err
	}
	return updated, nil
}

// Reset overwrites the file with default settings.
func (store *SettingsStore) Reset() (model.Settings, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	settings := model.DefaultSettings()
	return settings, store.saveLocked(settings)
}

// SettingKeys lists the keys accepted by Set, in file order.
func SettingKeys() []string {
	return []string{"mode", "focus_duration", "break_duration", "focus_color", "break_color", "focus_sound", "break_sound", "volume"}
}

func (store *SettingsStore) loadLocked() (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	settings = fromYaml(fileData)
	settings, replaced := settings.Normalize()
	if len(replaced) > 0 {
		store.logger.Warn("invalid settings replaced by defaults", "path", store.path, "fields", strings.Join(replaced, ","))
	}
	return settings, nil
}

func (store *SettingsStore) saveLocked(settings model.Settings) error {
	settings, _ = settings.Normalize()

	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(toYaml(settings))
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	// Replaced by rename so readers never see a partial file.
	tmp, err := os.CreateTemp(filepath.Dir(store.path), ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(serialized); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings file: %w", err)
	}
	if err := os.Rename(tmp.Name(), store.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}

	return nil
}

func toYaml(settings model.Settings) yamlSettings {
	volume := settings.Volume
	return yamlSettings{
		Mode:          string(settings.Mode),
		FocusDuration: int(settings.FocusDuration / time.Minute),
		BreakDuration: int(settings.BreakDuration / time.Minute),
		FocusColor:    settings.FocusColor,
		BreakColor:    settings.BreakColor,
		FocusSound:    settings.FocusSound,
		BreakSound:    settings.BreakSound,
		Volume:        &volume,
	}
}

func fromYaml(fileData yamlSettings) model.Settings {
	settings := model.Settings{
		Mode:          model.Mode(fileData.Mode),
		FocusDuration: time.Duration(fileData.FocusDuration) * time.Minute,
		BreakDuration: time.Duration(fileData.BreakDuration) * time.Minute,
		FocusColor:    fileData.FocusColor,
		BreakColor:    fileData.BreakColor,
		FocusSound:    fileData.FocusSound,
		BreakSound:    fileData.BreakSound,
		Volume:        model.DefaultSettings().Volume,
	}
	if fileData.Volume != nil {
		settings.Volume = *fileData.Volume
	}
	return settings
}

func applySetting(settings model.Settings, key, value string) (model.Settings, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "mode":
		mode, err := model.ParseMode(value)
		if err != nil {
			return settings, fmt.Errorf("%w: %v", ErrInvalidSetting, err)
		}
		settings.Mode = mode
	case "focus_duration":
		minutes, err := parseMinutes(value, model.MinFocusMinutes, model.MaxFocusMinutes)
		if err != nil {
			return settings, err
		}
		settings.FocusDuration = time.Duration(minutes) * time.Minute
	case "break_duration":
		minutes, err := parseMinutes(value, model.MinBreakMinutes, model.MaxBreakMinutes)
		if err != nil {
			return settings, err
		}
		settings.BreakDuration = time.Duration(minutes) * time.Minute
	case "focus_color", "break_color":
		color := strings.ToUpper(value)
		if !model.ValidColor(color) {
			return settings, fmt.Errorf("%w: %s must be #RRGGBB, got %q", ErrInvalidSetting, key, value)
		}
		if key == "focus_color" {
			settings.FocusColor = color
		} else {
			settings.BreakColor = color
		}
	case "focus_sound", "break_sound":
		if !model.ValidSound(value) {
			return settings, fmt.Errorf("%w: unknown sound %q (choose from %s)", ErrInvalidSetting, value, strings.Join(model.Sounds, ", "))
		}
		if key == "focus_sound" {
			settings.FocusSound = value
		} else {
			settings.BreakSound = value
		}
	case "volume":
		volume, err := strconv.ParseFloat(value, 64)
		if err != nil || volume < 0 || volume > 1 {
			return settings, fmt.Errorf("%w: volume must be between 0 and 1, got %q", ErrInvalidSetting, value)
		}
		settings.Volume = volume
	default:
		return settings, fmt.Errorf("%w: unknown key %q (known: %s)", ErrInvalidSetting, key, strings.Join(SettingKeys(), ", "))
	}
	return settings, nil
}

func parseMinutes(value string, minMinutes, maxMinutes int) (int, error) {
	minutes, err := strconv.Atoi(value)
	if err != nil || minutes < minMinutes || minutes > maxMinutes {
		return 0, fmt.Errorf("%w: duration must be %d-%d minutes, got %q", ErrInvalidSetting, minMinutes, maxMinutes, value)
	}
	return minutes, nil
}
