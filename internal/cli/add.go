package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var f prospectFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a prospect",
		Long:  "Add a business to track. Name, type, location and web presence are required; the status defaults to not_contacted.",
		Example: `  pt add --name "Joe's Plumbing" --type Plumber --location "Austin, TX" --presence "No website"
  pt add --name "Sweet Rolls" --type Bakery --location "Waco, TX" --presence "Facebook only" --phone 254-555-0199`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()

			p, err := c.CreateProspect(cmd.Context(), f.newProspect(cmd))
			if err != nil {
				return fmt.Errorf("adding prospect: %w", err)
			}

			w := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(w, p)
			}

			fmt.Fprintln(w, "Prospect added.")
			printProspectSummary(w, p)
			return nil
		},
	}

	f.register(cmd)
	for _, name := range []string{"name", "type", "location", "presence"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	return cmd
}
