package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/prospect-tracker/internal/prospect"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show prospect details",
		Long:  "Show full details for a prospect, including its activity log.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c := newAPIClient()

	p, err := c.GetProspect(cmd.Context(), id)
	if err != nil {
		return err
	}
	entries, err := c.ActivityLog(cmd.Context(), id)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(w, struct {
			Prospect *prospect.Prospect           `json:"prospect"`
			Activity []*prospect.ActivityLogEntry `json:"activity"`
		}{p, entries})
	}

	printProspectSummary(w, p)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Activity (%d):\n", len(entries))
	printActivity(w, entries)
	return nil
}
