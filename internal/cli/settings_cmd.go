package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"tomodoro/internal/core/model"
	"tomodoro/internal/storage"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newSettingsCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
	}

	cmd.AddCommand(
		newSettingsShowCmd(s),
		newSettingsPathCmd(s),
		newSettingsSetCmd(s),
		newSettingsEditCmd(s),
		newSettingsResetCmd(s),
	)

	return cmd
}

func newSettingsShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, args []string) error {
			settings, err := s.app.Settings.Load()
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s", renderTable([]string{"KEY", "VALUE"}, settingsRows(settings)))
			return nil
		}),
	}
}

func newSettingsPathCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, args []string) error {
			printf(cmd.OutOrStdout(), "%s\n", s.app.Settings.Path())
			return nil
		}),
	}
}

func newSettingsSetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:       "set KEY VALUE",
		Short:     "Change one setting",
		Args:      cobra.ExactArgs(2),
		ValidArgs: storage.SettingKeys(),
		RunE: s.run(func(cmd *cobra.Command, args []string) error {
			if _, err := s.app.Settings.Set(args[0], args[1]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s = %s\n", args[0], styleGreen.Render(args[1]))
			return nil
		}),
	}
}

func newSettingsResetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		Args:  cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, args []string) error {
			if _, err := s.app.Settings.Reset(); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Settings reset to defaults\n")
			return nil
		}),
	}
}

func newSettingsEditCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit settings interactively",
		Args:  cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.InOrStdin()) {
				return fmt.Errorf("settings edit requires an interactive terminal; use 'settings set'")
			}
			current, err := s.app.Settings.Load()
			if err != nil {
				return err
			}

			values := newSettingsFormValues(current)
			if err := settingsForm(values).Run(); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					printf(cmd.OutOrStdout(), "Cancelled\n")
					return nil
				}
				return err
			}

			updated, err := values.apply(current)
			if err != nil {
				return err
			}
			if err := s.app.Settings.Save(updated); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Saved %s\n", s.app.Settings.Path())
			return nil
		}),
	}
}

// settingsFormValues holds the form fields as text, as huh inputs edit strings.
type settingsFormValues struct {
	focusMinutes string
	breakMinutes string
	focusColor   string
	breakColor   string
	focusSound   string
	breakSound   string
	volume       string
}

func newSettingsFormValues(settings model.Settings) *settingsFormValues {
	return &settingsFormValues{
		focusMinutes: strconv.Itoa(int(settings.FocusDuration / time.Minute)),
		breakMinutes: strconv.Itoa(int(settings.BreakDuration / time.Minute)),
		focusColor:   settings.FocusColor,
		breakColor:   settings.BreakColor,
		focusSound:   settings.FocusSound,
		breakSound:   settings.BreakSound,
		volume:       strconv.FormatFloat(settings.Volume, 'f', -1, 64),
	}
}

func (values *settingsFormValues) apply(settings model.Settings) (model.Settings, error) {
	focus, err := validateMinutes(model.MinFocusMinutes, model.MaxFocusMinutes)(values.focusMinutes)
	if err != nil {
		return settings, fmt.Errorf("focus: %w", err)
	}
	brk, err := validateMinutes(model.MinBreakMinutes, model.MaxBreakMinutes)(values.breakMinutes)
	if err != nil {
		return settings, fmt.Errorf("break: %w", err)
	}
	if err := validateVolume(values.volume); err != nil {
		return settings, err
	}

	settings.FocusDuration = time.Duration(focus) * time.Minute
	settings.BreakDuration = time.Duration(brk) * time.Minute
	settings.FocusColor = values.focusColor
	settings.BreakColor = values.breakColor
	settings.FocusSound = values.focusSound
	settings.BreakSound = values.breakSound
	settings.Volume, _ = strconv.ParseFloat(values.volume, 64)

	normalized, replaced := settings.Normalize()
	if len(replaced) > 0 {
		return settings, fmt.Errorf("%w: %v", storage.ErrInvalidSetting, replaced)
	}
	return normalized, nil
}

func settingsForm(values *settingsFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Focus minutes (%d-%d)", model.MinFocusMinutes, model.MaxFocusMinutes)).
				Value(&values.focusMinutes).
				Validate(func(v string) error {
					_, err := validateMinutes(model.MinFocusMinutes, model.MaxFocusMinutes)(v)
					return err
				}),
			huh.NewInput().
				Title(fmt.Sprintf("Break minutes (%d-%d)", model.MinBreakMinutes, model.MaxBreakMinutes)).
				Value(&values.breakMinutes).
				Validate(func(v string) error {
					_, err := validateMinutes(model.MinBreakMinutes, model.MaxBreakMinutes)(v)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Focus color").Options(colorOptions(values.focusColor)...).Value(&values.focusColor),
			huh.NewSelect[string]().Title("Break color").Options(colorOptions(values.breakColor)...).Value(&values.breakColor),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Sound when focus ends").Options(huh.NewOptions(model.Sounds...)...).Value(&values.focusSound),
			huh.NewSelect[string]().Title("Sound when break ends").Options(huh.NewOptions(model.Sounds...)...).Value(&values.breakSound),
			huh.NewInput().Title("Volume (0-1)").Value(&values.volume).Validate(validateVolume),
		),
	)
}

func colorOptions(current string) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(model.ColorPresets)+1)
	known := false
	for _, preset := range model.ColorPresets {
		options = append(options, huh.NewOption(preset.Name+" "+preset.Value, preset.Value))
		if preset.Value == current {
			known = true
		}
	}
	if !known && model.ValidColor(current) {
		options = append(options, huh.NewOption("Custom "+current, current))
	}
	return options
}

func validateMinutes(minMinutes, maxMinutes int) func(string) (int, error) {
	return func(value string) (int, error) {
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes < minMinutes || minutes > maxMinutes {
			return 0, fmt.Errorf("must be a whole number between %d and %d", minMinutes, maxMinutes)
		}
		return minutes, nil
	}
}

func validateVolume(value string) error {
	volume, err := strconv.ParseFloat(value, 64)
	if err != nil || volume < 0 || volume > 1 {
		return fmt.Errorf("volume must be between 0 and 1")
	}
	return nil
}

func settingsRows(settings model.Settings) [][]string {
	return [][]string{
		{"mode", string(settings.Mode)},
		{"focus_duration", fmt.Sprintf("%d", int(settings.FocusDuration/time.Minute))},
		{"break_duration", fmt.Sprintf("%d", int(settings.BreakDuration/time.Minute))},
		{"focus_color", settings.FocusColor},
		{"break_color", settings.BreakColor},
		{"focus_sound", settings.FocusSound},
		{"break_sound", settings.BreakSound},
		{"volume", strconv.FormatFloat(settings.Volume, 'f', -1, 64)},
	}
}
