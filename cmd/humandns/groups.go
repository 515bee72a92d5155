package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rohits-web03/humandns/internal/client"
)

var groupCmd = &cobra.Command{
	Use:     "group",
	Aliases: []string{"groups"},
	Short:   "Manage channel groups",
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := api.ListGroups(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tORDER\tDESCRIPTION")
		for _, g := range groups {
			desc := ""
			if g.Description != nil {
				desc = *g.Description
			}
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", g.ID, g.Name, g.SortOrder, desc)
		}
		return tw.Flush()
	},
}

var (
	grName  string
	grDesc  string
	grOrder int
)

var groupAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := client.GroupInput{Name: args[0], SortOrder: grOrder}
		if grDesc != "" {
			in.Description = &grDesc
		}
		g, err := api.CreateGroup(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created group %q (%d)\n", g.Name, g.ID)
		return nil
	},
}

var groupEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Rename or reorder a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var in client.GroupUpdate
		flags := cmd.Flags()
		if flags.Changed("name") {
			in.Name = &grName
		}
		if flags.Changed("description") {
			in.Description = &grDesc
		}
		if flags.Changed("order") {
			in.SortOrder = &grOrder
		}
		g, err := api.UpdateGroup(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated group %q\n", g.Name)
		return nil
	},
}

var groupRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Delete a group, keeping its channels ungrouped",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := api.DeleteGroup(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %d\n", id)
		return nil
	},
}

func init() {
	groupAddCmd.Flags().StringVar(&grDesc, "description", "", "description")
	groupAddCmd.Flags().IntVar(&grOrder, "order", 0, "sort order")

	groupEditCmd.Flags().StringVar(&grName, "name", "", "new name")
	groupEditCmd.Flags().StringVar(&grDesc, "description", "", "description, empty to clear")
	groupEditCmd.Flags().IntVar(&grOrder, "order", 0, "sort order")

	groupCmd.AddCommand(groupListCmd, groupAddCmd, groupEditCmd, groupRemoveCmd)
}
