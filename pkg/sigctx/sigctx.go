// Package sigctx derives a context canceled on process termination signals.
package sigctx

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

var terminate = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}

// NotifyContext returns a copy of parent that is canceled on the first
// termination signal or when the returned stop is called.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	c := make(chan os.Signal, 1)
	signal.Notify(c, terminate...)

	go func() {
		select {
		case sig := <-c:
			slog.Info("received signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	stop := func() {
		signal.Stop(c)
		cancel()
	}
	return ctx, stop
}
