package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newUpdateCmd() *cobra.Command {
	var f prospectFlags
	var clear []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a prospect",
		Long: "Change the fields given as flags; everything else is left alone. " +
			"Use --clear to remove optional values. Changing --status adds an activity entry.",
		Example: `  pt update 7 --status email_sent
  pt update 7 --phone 512-555-0100 --clear email,notes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			patch, err := f.patch(cmd, clear)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return errors.New("nothing to update: pass at least one field flag or --clear")
			}

			c := newAPIClient()
			p, err := c.UpdateProspect(cmd.Context(), id, patch)
			if err != nil {
				return fmt.Errorf("updating prospect: %w", err)
			}

			w := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(w, p)
			}

			fmt.Fprintln(w, "Prospect updated.")
			printProspectSummary(w, p)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringSliceVar(&clear, "clear", nil, "optional fields to clear ("+clearableNames()+")")

	return cmd
}
