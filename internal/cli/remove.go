package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a prospect",
		Long:  "Remove a prospect and its activity log.",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c := newAPIClient()
	if err := c.DeleteProspect(cmd.Context(), id); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"id":      id,
			"removed": true,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Prospect #%d removed.\n", id)
	return nil
}
