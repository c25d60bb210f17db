package sound

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

type command struct {
	name string
	args []string
}

// commandPlayer tries each command in order until one succeeds.
type commandPlayer struct {
	commands func(path string) []command
}

// NewSystemPlayer returns a Player backed by the platform's audio tools.
func NewSystemPlayer() Player {
	return commandPlayer{commands: platformCommands}
}

func (player commandPlayer) PlayFile(ctx context.Context, path string) error {
	commands := player.commands(path)
	if len(commands) == 0 {
		return ErrUnsupported
	}

	var errs []error
	for _, candidate := range commands {
		if _, err := exec.LookPath(candidate.name); err != nil {
			errs = append(errs, err)
			continue
		}
		cmd := exec.CommandContext(ctx, candidate.name, candidate.args...)
		if err := cmd.Run(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", candidate.name, err))
			continue
		}
		return nil
	}
	return errors.Join(append([]error{ErrUnsupported}, errs...)...)
}
