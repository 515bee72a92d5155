package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rohits-web03/humandns/internal/client"
	"github.com/rohits-web03/humandns/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile <username>",
	Short: "Show a profile page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page := client.NewProfilePage(api, args[0])
		defer page.Close()

		if err := page.Load(cmd.Context()); err != nil {
			if page.State() == client.StateNotFound {
				return fmt.Errorf("user %q not found", args[0])
			}
			return err
		}
		view, _ := page.View()
		printView(cmd.OutOrStdout(), view)
		return nil
	},
}

func printView(w io.Writer, v profile.View) {
	fmt.Fprintf(w, "%s (@%s)\n", v.DisplayName, v.User.Username)
	if v.User.Bio != nil && *v.User.Bio != "" {
		fmt.Fprintln(w, *v.User.Bio)
	}
	if v.Empty {
		fmt.Fprintln(w, "\nNo channels yet.")
		return
	}
	for _, s := range v.Sections {
		fmt.Fprintf(w, "\n%s\n", s.Name)
		for _, c := range s.Channels {
			label := string(c.Type)
			if c.Label != nil && *c.Label != "" {
				label = *c.Label
			}
			line := fmt.Sprintf("  [%d] %-12s %s", c.ID, label, c.Value)
			if c.Href != "" && c.Href != c.Value {
				line += "  <" + c.Href + ">"
			}
			if v.IsOwner && !c.IsPublic {
				line += "  (private)"
			}
			if c.IsPrimary {
				line += "  *"
			}
			fmt.Fprintln(w, line)
		}
	}
}

var (
	editFirst   string
	editLast    string
	editDisplay string
	editBio     string
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Update your name and bio",
	Long:  "Only the flags that are passed are changed. Pass an empty value to clear a field.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var in client.ProfileUpdate
		flags := cmd.Flags()
		if flags.Changed("first-name") {
			in.FirstName = &editFirst
		}
		if flags.Changed("last-name") {
			in.LastName = &editLast
		}
		if flags.Changed("display-name") {
			in.DisplayName = &editDisplay
		}
		if flags.Changed("bio") {
			in.Bio = &editBio
		}
		u, err := api.UpdateProfile(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated profile of %s\n", profile.DisplayName(*u))
		return nil
	},
}

var outputPath string

// writeOutput writes to --output, or stdout when it is empty or "-".
func writeOutput(cmd *cobra.Command, data []byte) error {
	if outputPath == "" || outputPath == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", outputPath)
	return nil
}

var vcardCmd = &cobra.Command{
	Use:   "vcard <username>",
	Short: "Download a profile as a vCard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := api.VCard(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeOutput(cmd, data)
	},
}

var qrSize int

var qrCmd = &cobra.Command{
	Use:   "qr <username>",
	Short: "Download the QR code that links to a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputPath == "" {
			outputPath = args[0] + ".png"
		}
		data, err := api.QR(cmd.Context(), args[0], qrSize)
		if err != nil {
			return err
		}
		return writeOutput(cmd, data)
	},
}

func init() {
	editCmd.Flags().StringVar(&editFirst, "first-name", "", "first name")
	editCmd.Flags().StringVar(&editLast, "last-name", "", "last name")
	editCmd.Flags().StringVar(&editDisplay, "display-name", "", "display name")
	editCmd.Flags().StringVar(&editBio, "bio", "", "short bio")

	vcardCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")
	qrCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default <username>.png)")
	qrCmd.Flags().IntVar(&qrSize, "size", 256, "image size in pixels (128-1024)")
}
