package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection to the server",
		Long:  "Tests the connection to the configured server and its database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd)
		},
	}
}

func runStatus(cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	serverURL := getServerURL()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	err := newAPIClient().Health(ctx)

	if isJSON() {
		resp := map[string]interface{}{
			"server":    serverURL,
			"reachable": err == nil,
		}
		if err != nil {
			resp["error"] = err.Error()
		}
		return printJSON(w, resp)
	}

	fmt.Fprintf(w, "Server:  %s\n", serverURL)
	if err != nil {
		fmt.Fprintf(w, "Status:  ✗ cannot reach server (%v)\n", err)
		fmt.Fprintln(w, "\nRun 'pt serve' or set the server with 'pt config --server URL'.")
		return nil
	}
	fmt.Fprintln(w, "Status:  ✓ connected")
	return nil
}
