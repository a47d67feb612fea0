package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/evcraddock/prospect-tracker/internal/prospect"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printProspectSummary prints a single prospect in text format.
func printProspectSummary(w io.Writer, p *prospect.Prospect) {
	fmt.Fprintf(w, "Prospect #%d\n", p.ID)
	fmt.Fprintf(w, "  Business:     %s\n", p.BusinessName)
	fmt.Fprintf(w, "  Type:         %s\n", p.BusinessType)
	fmt.Fprintf(w, "  Location:     %s\n", p.Location)
	fmt.Fprintf(w, "  Status:       %s\n", p.Status.Label())
	fmt.Fprintf(w, "  Web presence: %s\n", p.CurrentWebPresence)
	if p.Phone != nil {
		fmt.Fprintf(w, "  Phone:        %s\n", *p.Phone)
	}
	if p.Email != nil {
		fmt.Fprintf(w, "  Email:        %s\n", *p.Email)
	}
	if p.ListingURL != nil {
		fmt.Fprintf(w, "  Listing:      %s\n", *p.ListingURL)
	}
	if p.YearsInBusiness != nil {
		fmt.Fprintf(w, "  Years:        %d\n", *p.YearsInBusiness)
	}
	if p.LastContacted != nil {
		fmt.Fprintf(w, "  Last contact: %s\n", *p.LastContacted)
	}
	if p.NextFollowup != nil {
		fmt.Fprintf(w, "  Follow up:    %s\n", *p.NextFollowup)
	}
	if p.Notes != nil {
		fmt.Fprintf(w, "  Notes:        %s\n", *p.Notes)
	}
}

// printProspectTable prints a list of prospects as a formatted table.
func printProspectTable(out io.Writer, props []*prospect.Prospect) error {
	if len(props) == 0 {
		fmt.Fprintln(out, "No prospects found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tBUSINESS\tTYPE\tLOCATION\tSTATUS\tLAST CONTACT\tFOLLOW UP"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t--------\t----\t--------\t------\t------------\t---------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, p := range props {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, truncate(p.BusinessName, 32), truncate(p.BusinessType, 20), truncate(p.Location, 24),
			p.Status.Label(), orDash(p.LastContacted), orDash(p.NextFollowup)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(out, "\nTotal: %d prospects\n", len(props))
	return nil
}

// printActivity prints activity entries in text format.
func printActivity(w io.Writer, entries []*prospect.ActivityLogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No activity.")
		return
	}

	for _, e := range entries {
		fmt.Fprintf(w, "[%s] %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Action)
		if e.Details != nil {
			fmt.Fprintf(w, "  %s\n", *e.Details)
		}
	}
}

// printStats prints the pipeline summary.
func printStats(out io.Writer, st *prospect.Stats) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	rows := []struct {
		label string
		n     int
	}{
		{"Total", st.Total},
		{"Not contacted", st.NotContacted},
		{"In progress", st.InProgress},
		{"Won", st.Won},
		{"Lost", st.Lost},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s:\t%d\n", r.label, r.n); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
	}
	return w.Flush()
}

// printFilterOptions prints the values in use for each filter.
func printFilterOptions(w io.Writer, opts *prospect.FilterOptions) {
	section := func(title string, values []string) {
		fmt.Fprintf(w, "%s:\n", title)
		if len(values) == 0 {
			fmt.Fprintln(w, "  (none)")
		}
		for _, v := range values {
			fmt.Fprintf(w, "  %s\n", v)
		}
	}
	section("Business types", opts.BusinessTypes)
	section("Locations", opts.Locations)
	section("Statuses", opts.Statuses)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
