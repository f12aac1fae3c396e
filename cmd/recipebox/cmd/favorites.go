package cmd

import (
	"github.com/spf13/cobra"
)

func newFavoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Inspect a user's favorite recipes",
	}
	cmd.AddCommand(newFavoritesListCmd())
	return cmd
}

func newFavoritesListCmd() *cobra.Command {
	var userID, format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's favorites, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			stores, err := loadStores(cmd.Context())
			if err != nil {
				return err
			}
			defer stores.Close(cmd.Context())

			recipes, err := stores.Favorites.ListFavorites(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return writeRecipes(cmd.OutOrStdout(), format, recipes)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID (required)")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or json")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
