package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// shutdownSignal returns a context canceled on interrupt or terminate.
func shutdownSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
