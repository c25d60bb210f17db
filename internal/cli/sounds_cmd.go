package cli

import (
	"context"
	"fmt"
	"time"

	"tomodoro/internal/core/model"
	"tomodoro/internal/sound"

	"github.com/spf13/cobra"
)

func newSoundsCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sounds",
		Short: "List or preview completion sounds",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the available sounds",
			Args:  cobra.NoArgs,
			RunE: s.run(func(cmd *cobra.Command, args []string) error {
				settings, err := s.app.Settings.Load()
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(model.Sounds))
				for _, id := range s.app.Sound.Available() {
					rows = append(rows, []string{id, soundUsage(id, settings)})
				}
				printf(cmd.OutOrStdout(), "%s", renderTable([]string{"SOUND", "USED FOR"}, rows))
				return nil
			}),
		},
		&cobra.Command{
			Use:       "play SOUND",
			Short:     "Play a sound at the configured volume",
			Args:      cobra.ExactArgs(1),
			ValidArgs: model.Sounds,
			RunE: s.run(func(cmd *cobra.Command, args []string) error {
				if !model.ValidSound(args[0]) {
					return fmt.Errorf("%w: %q", sound.ErrUnknownSound, args[0])
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
				defer cancel()
				if err := s.app.Sound.PlaySync(ctx, args[0]); err != nil {
					printf(cmd.ErrOrStderr(), "%s\n", styleYellow.Render("played fallback: "+err.Error()))
				}
				return nil
			}),
		},
	)

	return cmd
}

func soundUsage(id string, settings model.Settings) string {
	switch {
	case settings.FocusSound == id && settings.BreakSound == id:
		return styleGreen.Render("focus, break")
	case settings.FocusSound == id:
		return styleGreen.Render("focus")
	case settings.BreakSound == id:
		return styleGreen.Render("break")
	}
	return styleDim.Render("-")
}
