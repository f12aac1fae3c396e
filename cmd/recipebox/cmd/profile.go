package cmd

import (
	"errors"
	"fmt"

	"github.com/nfrund/recipebox/internal/domain"
	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change a user's profile",
	}
	cmd.AddCommand(newProfileShowCmd(), newProfileSetCmd())
	return cmd
}

func newProfileShowCmd() *cobra.Command {
	var userID, format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a user's profile",
		Example: `  recipebox profile show --user 6f1c...
  recipebox profile show --user 6f1c... --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			stores, err := loadStores(cmd.Context())
			if err != nil {
				return err
			}
			defer stores.Close(cmd.Context())

			p, err := stores.Profiles.Get(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return writeProfile(cmd.OutOrStdout(), format, p)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID (required)")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or json")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newProfileSetCmd() *cobra.Command {
	var userID, username, bio string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change a user's username and/or bio",
		Example: `  recipebox profile set --user 6f1c... --username baker
  recipebox profile set --user 6f1c... --bio ""`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setName := cmd.Flags().Changed("username")
			setBio := cmd.Flags().Changed("bio")
			if !setName && !setBio {
				return errors.New("nothing to change: pass --username and/or --bio")
			}

			ctx := cmd.Context()
			stores, err := loadStores(ctx)
			if err != nil {
				return err
			}
			defer stores.Close(ctx)

			current, err := stores.Profiles.Get(ctx, userID)
			if err != nil {
				return err
			}
			update := domain.ProfileUpdate{Username: current.Username, Bio: current.Bio}
			if setName {
				update.Username = username
			}
			if setBio {
				update.Bio = bio
			}
			if err := update.Validate(); err != nil {
				return err
			}

			if setName {
				if err := stores.Profiles.UpdateUsername(ctx, userID, update.Username); err != nil {
					return fmt.Errorf("update username: %w", err)
				}
			}
			if setBio {
				if err := stores.Profiles.UpdateBio(ctx, userID, update.Bio); err != nil {
					return fmt.Errorf("update bio: %w", err)
				}
			}

			p, err := stores.Profiles.Get(ctx, userID)
			if err != nil {
				return err
			}
			return writeProfile(cmd.OutOrStdout(), formatTable, p)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID (required)")
	cmd.Flags().StringVar(&username, "username", "", "new username")
	cmd.Flags().StringVar(&bio, "bio", "", "new bio")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
