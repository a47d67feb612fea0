package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newContactCmd() *cobra.Command {
	var note, followup string

	cmd := &cobra.Command{
		Use:   "contact <id>",
		Short: "Log a contact with a prospect",
		Long: "Record that you contacted the prospect today. The note is stored in the activity log. " +
			"--followup sets the next follow-up date; leaving it out clears any existing one.",
		Example: `  pt contact 7 --note "Left voicemail" --followup 2025-01-20`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var next *string
			if followup != "" {
				next = &followup
			}

			c := newAPIClient()
			p, err := c.LogContact(cmd.Context(), id, note, next)
			if err != nil {
				return fmt.Errorf("logging contact: %w", err)
			}

			w := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(w, p)
			}

			fmt.Fprintf(w, "Contact logged for #%d (%s).\n", p.ID, p.BusinessName)
			fmt.Fprintf(w, "  Last contact: %s\n", orDash(p.LastContacted))
			fmt.Fprintf(w, "  Follow up:    %s\n", orDash(p.NextFollowup))
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "what happened (required)")
	cmd.Flags().StringVar(&followup, "followup", "", "next follow-up date (YYYY-MM-DD)")
	if err := cmd.MarkFlagRequired("note"); err != nil {
		panic(err)
	}

	return cmd
}
