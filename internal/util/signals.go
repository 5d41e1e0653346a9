package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context derived from parent that is cancelled on SIGINT or SIGTERM.
// The first signal starts a best-effort shutdown; a second one exits immediately.
// The returned stop function releases the signal subscription.
func SetupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			slog.Info("received shutdown signal", "signal", sig.String())
			cancel()
		case <-done:
			return
		}

		select {
		case sig := <-sigCh:
			slog.Warn("received second shutdown signal, forcing exit", "signal", sig.String())
			os.Exit(1)
		case <-done:
		}
	}()

	stop := func() {
		signal.Stop(sigCh)
		select {
		case <-done:
		default:
			close(done)
		}
		cancel()
	}

	return ctx, stop
}
