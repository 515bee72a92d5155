package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var contactCmd = &cobra.Command{
	Use:     "contact",
	Aliases: []string{"contacts"},
	Short:   "Manage your address book",
}

var contactListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		contacts, err := api.ListContacts(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "USER ID\tUSERNAME\tNAME\tADDED")
		for _, c := range contacts {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.User.ID, c.User.Username, c.DisplayName, c.AddedAt.Format("2006-01-02"))
		}
		return tw.Flush()
	},
}

var searchLimit int

var contactSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search users by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := api.SearchContacts(cmd.Context(), args[0], searchLimit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "USER ID\tUSERNAME\tNAME\tCONTACT")
		for _, r := range results {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%t\n", r.User.ID, r.User.Username, r.DisplayName, r.IsContact)
		}
		return tw.Flush()
	},
}

var contactAddCmd = &cobra.Command{
	Use:   "add <user-id>",
	Short: "Add a user to your contacts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := api.AddContact(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to contacts\n", c.DisplayName)
		return nil
	},
}

var contactRemoveCmd = &cobra.Command{
	Use:     "rm <user-id>",
	Aliases: []string{"remove"},
	Short:   "Remove a user from your contacts",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := api.RemoveContact(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Contact removed")
		return nil
	},
}

func init() {
	contactSearchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum results (1-50)")
	contactCmd.AddCommand(contactListCmd, contactSearchCmd, contactAddCmd, contactRemoveCmd)
}
