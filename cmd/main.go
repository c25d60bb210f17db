package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tomodoro/internal/cli"
	"tomodoro/internal/tui"
	"tomodoro/internal/ui/desktop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(cli.Frontends{
		GUI: desktop.Run,
		TUI: tui.Run,
	})
	return root.ExecuteContext(ctx)
}
