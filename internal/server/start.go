package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Start boots the modules and serves HTTP until ctx is done or an interrupt
// or terminate signal arrives, then shuts everything down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := shutdownSignal(ctx)
	defer stop()

	if err := s.Boot(ctx); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		addr := s.Cfg.GetAppAddr()
		slog.Info("HTTP server listening", "event", "server_start", "addr", addr)
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down", "event", "server_stop")
	case err, ok := <-serveErr:
		if ok {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.shutdown(shutdownCtx)
}
