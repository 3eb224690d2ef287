// Package main contains the entrypoint for the Telegram diary collector.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(exitCode)
}

// run executes the command line in args and returns the process exit code.
func run(ctx context.Context, args []string, stdout io.Writer) int {
	root := newRootCmd(stdout)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		slog.Error("Command failed", "error", err)
		return 1
	}
	return 0
}

// exitError ends the process with code without logging anything further.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "exit" }
