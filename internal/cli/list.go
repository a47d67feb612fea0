package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/prospect-tracker/internal/prospect"
)

func newListCmd() *cobra.Command {
	var opts prospect.ListOptions
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prospects",
		Long:  "List tracked prospects, optionally filtered by status, business type and location.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Status = prospect.Status(status)
			c := newAPIClient()

			props, err := c.ListProspects(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd.OutOrStdout(), props)
			}
			return printProspectTable(cmd.OutOrStdout(), props)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&opts.BusinessType, "type", "", "filter by business type")
	cmd.Flags().StringVar(&opts.Location, "location", "", "filter by location")
	cmd.Flags().StringVar(&opts.SortBy, "sort", "", "sort by business_name, last_contacted, next_followup, created_at or updated_at")
	cmd.Flags().StringVar(&opts.SortOrder, "order", "", "sort order (asc|desc)")

	return cmd
}
