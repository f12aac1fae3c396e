package cmd

import (
	"fmt"

	"github.com/nfrund/recipebox/internal/app"
	"github.com/nfrund/recipebox/internal/config"
	"github.com/nfrund/recipebox/internal/logging"
	"github.com/nfrund/recipebox/internal/server"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("configuration: %w", err)
			}
			if addr != "" {
				cfg.AppAddr = addr
			}
			logging.New()

			s, err := do.Invoke[*server.Server](app.NewContainer(cmd.Context(), cfg))
			if err != nil {
				return err
			}
			return s.Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides APP_ADDR)")
	return cmd
}
