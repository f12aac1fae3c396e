package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfrund/recipebox/internal/app"
	"github.com/nfrund/recipebox/internal/config"
	"github.com/nfrund/recipebox/internal/logging"
	"github.com/nfrund/recipebox/internal/server"
	"github.com/samber/do/v2"
)

func main() {
	cfg := config.New()
	logging.New()

	ctx := context.Background()
	container := app.NewContainer(ctx, cfg)

	s, err := do.Invoke[*server.Server](container)
	if err != nil {
		slog.Error("Failed to build server", "error", err)
		os.Exit(1)
	}
	if err := s.Start(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
