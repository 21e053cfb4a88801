package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	fornaxerrors "github.com/nasa-fornax/fornax-images/pkg/errors"
	"github.com/nasa-fornax/fornax-images/pkg/util/console"
)

// Execute runs cmd until it finishes or the process is interrupted, prints
// any error and returns the process exit status.
func Execute(cmd *cobra.Command) int {
	ctx, cancel := newCancellationContext()
	defer cancel()

	if err := cmd.ExecuteContext(ctx); err != nil {
		console.Error(err.Error())
		return fornaxerrors.ExitCode(err)
	}
	return 0
}

func newCancellationContext() (context.Context, context.CancelFunc) {
	// First signal cancels the context, killing the running command.
	// Second signal force-exits immediately.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	go func() {
		<-ctx.Done()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		console.Debugf("Shutting down. Signal again to force quit.")

		<-sig
		console.Warnf("Forced exit")
		os.Exit(1)
	}()

	return ctx, cancel
}
