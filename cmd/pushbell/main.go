package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cristianoliveira/pushbell/cmd"
	"github.com/cristianoliveira/pushbell/internal/logging"
)

func main() {
	os.Exit(run(context.Background(), cmd.Execute))
}

// run executes the CLI and returns the process exit code.
func run(parent context.Context, execute func(context.Context) error) int {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer finish(sessions)

	if err := execute(ctx); err != nil {
		return 1
	}
	return 0
}

// finish releases app and then closes the log, so a close failure is still
// written to it.
func finish(app io.Closer) {
	if err := app.Close(); err != nil {
		logging.GetGlobal().Warn("close app failed", "error", err)
	}
	_ = logging.ShutdownGlobal()
}
