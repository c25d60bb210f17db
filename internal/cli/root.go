// Package cli is the tomodoro command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	tomodoro "tomodoro/internal/app"
	"tomodoro/internal/config"
	"tomodoro/internal/logging"

	"github.com/spf13/cobra"
)

// Frontend runs an interactive front end until it exits.
type Frontend func(ctx context.Context, a *tomodoro.App) error

// Frontends are the interactive entry points, injected by main so that the
// command tree does not depend on a GUI toolkit.
type Frontends struct {
	GUI Frontend
	TUI Frontend
}

type rootFlags struct {
	debug     bool
	logFile   string
	configDir string
	dbPath    string
}

// session is the state shared by the commands of one invocation.
type session struct {
	frontends Frontends
	flags     rootFlags
	app       *tomodoro.App
	closeLog  func() error
	options   []tomodoro.Option
}

// NewRootCmd creates the top-level "tomodoro" command.
func NewRootCmd(frontends Frontends, options ...tomodoro.Option) *cobra.Command {
	s := &session{frontends: frontends, options: options}

	root := &cobra.Command{
		Use:           "tomodoro",
		Short:         "Focus/break timer with a session history",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.open(cmd)
		},
		RunE: s.run(func(cmd *cobra.Command, args []string) error {
			return s.runFrontend(cmd, s.frontends.GUI, "gui")
		}),
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&s.flags.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&s.flags.logFile, "log-file", "", "Write logs to this file")
	flags.StringVar(&s.flags.configDir, "config-dir", "", "Directory holding settings.yaml")
	flags.StringVar(&s.flags.dbPath, "db", "", "Path of the session database")

	root.AddCommand(
		newGUICmd(s),
		newTUICmd(s),
		newHistoryCmd(s),
		newSettingsCmd(s),
		newSoundsCmd(s),
	)

	return root
}

func (s *session) open(cmd *cobra.Command) error {
	if s.app != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("config-dir") {
		cfg.ConfigDir = s.flags.configDir
		if !flags.Changed("db") && !envSet("TOMODORO_DB") {
			cfg.DBPath = defaultDBPath(cfg.ConfigDir)
		}
	}
	if flags.Changed("db") {
		cfg.DBPath = s.flags.dbPath
	}
	if flags.Changed("debug") {
		cfg.Debug = s.flags.debug
	}
	if flags.Changed("log-file") {
		cfg.LogFile = s.flags.logFile
	}

	logger, closeLog, err := logging.New(logging.Options{Debug: cfg.Debug, File: cfg.LogFile, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}

	options := append([]tomodoro.Option{tomodoro.WithLogger(logger)}, s.options...)
	a, err := tomodoro.Open(cfg, options...)
	if err != nil {
		_ = closeLog()
		return err
	}
	logger.Debug("opened", "config_dir", cfg.ConfigDir, "db", cfg.DBPath)

	s.app = a
	s.closeLog = closeLog
	return nil
}

func (s *session) close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	if s.closeLog != nil {
		_ = s.closeLog()
	}
	s.app = nil
	return err
}

// run wraps a RunE so that the app is closed on every exit path.
func (s *session) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			err = errors.Join(err, s.close())
		}()
		return fn(cmd, args)
	}
}

func (s *session) runFrontend(cmd *cobra.Command, frontend Frontend, name string) error {
	if frontend == nil {
		return fmt.Errorf("%s front end is not available in this build", name)
	}
	return frontend(cmd.Context(), s.app)
}

func newGUICmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop timer (default)",
		Args:  cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, args []string) error {
			return s.runFrontend(cmd, s.frontends.GUI, "gui")
		}),
	}
}

func newTUICmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the timer in the terminal",
		Args:  cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.InOrStdin()) || !isTerminal(cmd.OutOrStdout()) {
				return fmt.Errorf("tui requires an interactive terminal")
			}
			return s.runFrontend(cmd, s.frontends.TUI, "tui")
		}),
	}
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
