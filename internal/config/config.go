package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"tomodoro/internal/platform"

	"github.com/joho/godotenv"
)

// AppName names the per-user directories and the single instance lock.
const AppName = "tomodoro"

// Config holds process configuration. User preferences live in the
// settings store under ConfigDir.
type Config struct {
	ConfigDir    string
	DBPath       string
	Debug        bool
	LogFile      string
	TickInterval time.Duration
}

// Load reads configuration from .env and the environment.
// Priority: environment > .env file > defaults. When TOMODORO_CONFIG_DIR is
// set and TOMODORO_DB is not, the database is kept in the config dir.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ConfigDir: os.Getenv("TOMODORO_CONFIG_DIR"),
		DBPath:    os.Getenv("TOMODORO_DB"),
		LogFile:   os.Getenv("TOMODORO_LOG_FILE"),
	}

	if cfg.ConfigDir == "" {
		dir, err := platform.ConfigDir(AppName)
		if err != nil {
			return nil, err
		}
		cfg.ConfigDir = dir
		if cfg.DBPath == "" {
			dataDir, err := platform.DataDir(AppName)
			if err != nil {
				return nil, err
			}
			cfg.DBPath = filepath.Join(dataDir, AppName+".db")
		}
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.ConfigDir, AppName+".db")
	}

	if raw := os.Getenv("TOMODORO_DEBUG"); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("TOMODORO_DEBUG: %w", err)
		}
		cfg.Debug = debug
	}

	cfg.TickInterval = time.Second
	if raw := os.Getenv("TOMODORO_TICK"); raw != "" {
		tick, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("TOMODORO_TICK: %w", err)
		}
		if tick <= 0 {
			return nil, fmt.Errorf("TOMODORO_TICK must be positive, got %s", raw)
		}
		cfg.TickInterval = tick
	}

	return cfg, nil
}
