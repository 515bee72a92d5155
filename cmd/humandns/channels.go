package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rohits-web03/humandns/internal/client"
	"github.com/rohits-web03/humandns/internal/models"
)

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, &client.ValidationError{Field: "id", Message: fmt.Sprintf("%q is not a valid id", s)}
	}
	return uint(id), nil
}

var channelCmd = &cobra.Command{
	Use:     "channel",
	Aliases: []string{"channels"},
	Short:   "Manage your contact channels",
}

var channelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all of your channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		channels, err := api.ListChannels(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTYPE\tVALUE\tLABEL\tGROUP\tPUBLIC\tPRIMARY")
		for _, c := range channels {
			label, group := "-", "-"
			if c.Label != nil {
				label = *c.Label
			}
			if c.GroupID != nil {
				group = strconv.FormatUint(uint64(*c.GroupID), 10)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%t\t%t\n", c.ID, c.Type, c.Value, label, group, c.IsPublic, c.IsPrimary)
		}
		return tw.Flush()
	},
}

var (
	chLabel   string
	chGroup   uint
	chPrivate bool
	chPublic  bool
	chPrimary bool
	chOrder   int
	chValue   string
	chUngroup bool
)

var channelAddCmd = &cobra.Command{
	Use:   "add <type> <value>",
	Short: "Add a channel",
	Long:  fmt.Sprintf("Adds a channel. Known types: %v.", models.ChannelTypes),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		public := !chPrivate
		in := client.ChannelInput{
			Type:      models.ChannelType(args[0]),
			Value:     args[1],
			IsPublic:  &public,
			IsPrimary: chPrimary,
			SortOrder: chOrder,
		}
		if chLabel != "" {
			in.Label = &chLabel
		}
		if chGroup != 0 {
			in.GroupID = &chGroup
		}
		c, err := api.CreateChannel(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s channel %d\n", c.Type, c.ID)
		return nil
	},
}

var channelEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a channel",
	Long:  "Only the flags that are passed are changed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var in client.ChannelUpdate
		flags := cmd.Flags()
		if flags.Changed("value") {
			in.Value = &chValue
		}
		if flags.Changed("label") {
			in.Label = &chLabel
		}
		if flags.Changed("group") {
			in.GroupID = &chGroup
		}
		in.Ungroup = chUngroup
		if flags.Changed("public") {
			in.IsPublic = &chPublic
		}
		if flags.Changed("private") {
			public := !chPrivate
			in.IsPublic = &public
		}
		if flags.Changed("primary") {
			in.IsPrimary = &chPrimary
		}
		if flags.Changed("order") {
			in.SortOrder = &chOrder
		}
		c, err := api.UpdateChannel(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated channel %d\n", c.ID)
		return nil
	},
}

var channelRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Delete a channel",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := api.DeleteChannel(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted channel %d\n", id)
		return nil
	},
}

func init() {
	channelAddCmd.Flags().StringVar(&chLabel, "label", "", "label shown instead of the type")
	channelAddCmd.Flags().UintVar(&chGroup, "group", 0, "group id")
	channelAddCmd.Flags().BoolVar(&chPrivate, "private", false, "hide from visitors")
	channelAddCmd.Flags().BoolVar(&chPrimary, "primary", false, "mark as primary")
	channelAddCmd.Flags().IntVar(&chOrder, "order", 0, "sort order")

	channelEditCmd.Flags().StringVar(&chValue, "value", "", "new value")
	channelEditCmd.Flags().StringVar(&chLabel, "label", "", "label, empty to clear")
	channelEditCmd.Flags().UintVar(&chGroup, "group", 0, "move into group id")
	channelEditCmd.Flags().BoolVar(&chUngroup, "ungroup", false, "move out of its group")
	channelEditCmd.Flags().BoolVar(&chPublic, "public", false, "show to visitors")
	channelEditCmd.Flags().BoolVar(&chPrivate, "private", false, "hide from visitors")
	channelEditCmd.Flags().BoolVar(&chPrimary, "primary", false, "mark as primary")
	channelEditCmd.Flags().IntVar(&chOrder, "order", 0, "sort order")
	channelEditCmd.MarkFlagsMutuallyExclusive("public", "private")
	channelEditCmd.MarkFlagsMutuallyExclusive("group", "ungroup")

	channelCmd.AddCommand(channelListCmd, channelAddCmd, channelEditCmd, channelRemoveCmd)
}

