package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/nfrund/recipebox/internal/app"
	"github.com/nfrund/recipebox/internal/config"
	"github.com/nfrund/recipebox/internal/logging"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

var version = "0.1.0" // set at build time with -ldflags

// NewRootCmd builds the recipebox command tree.
func NewRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "recipebox",
		Short: "Recipe Box server and admin tool",
		Long: `recipebox runs the Recipe Box web server and inspects stored profiles and favorites.

Configuration is read from the environment, after loading the env file if present.

Use "recipebox [command] --help" for more information about a command.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load(envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file to load before reading configuration")

	root.AddCommand(newServeCmd(), newProfileCmd(), newFavoritesCmd(), newVersionCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadStores builds the storage backend from configuration.
func loadStores(ctx context.Context) (*app.Stores, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	logging.New()
	return do.Invoke[*app.Stores](app.NewContainer(ctx, cfg))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of recipebox",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "recipebox v%s\n", version)
		},
	}
}
