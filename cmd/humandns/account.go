package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rohits-web03/humandns/internal/client"
)

var avatarCmd = &cobra.Command{
	Use:   "avatar",
	Short: "Manage your profile picture",
}

var avatarSetCmd = &cobra.Command{
	Use:   "set <image>",
	Short: "Upload a JPEG, PNG or WebP image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		u, err := api.UploadAvatar(cmd.Context(), filepath.Base(args[0]), data)
		if err != nil {
			return err
		}
		if u.AvatarURL != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Avatar uploaded: %s\n", *u.AvatarURL)
		}
		return nil
	},
}

var avatarRemoveCmd = &cobra.Command{
	Use:     "rm",
	Aliases: []string{"remove"},
	Short:   "Remove your profile picture",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.DeleteAvatar(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Avatar removed")
		return nil
	},
}

var confirmText string

var deleteAccountCmd = &cobra.Command{
	Use:   "delete-account",
	Short: "Permanently delete your account",
	Long: fmt.Sprintf(`Deletes your account with all channels, groups and contacts.
Pass --confirm %q to proceed.`, client.DeleteConfirmation),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.DeleteAccount(cmd.Context(), confirmText); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Account deleted")
		return nil
	},
}

func init() {
	deleteAccountCmd.Flags().StringVar(&confirmText, "confirm", "", "confirmation text")
	avatarCmd.AddCommand(avatarSetCmd, avatarRemoveCmd)
}
