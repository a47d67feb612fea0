// Package cli defines the cobra command tree for the prospect tracker.
package cli

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evcraddock/prospect-tracker/internal/client"
	"github.com/evcraddock/prospect-tracker/internal/db"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pt",
		Short:         "Track business prospects",
		Long:          "A tool to track businesses to pitch. Record prospects, move them through the sales pipeline, log contacts, and browse via CLI or the JSON API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagFormat != "text" && flagFormat != "json" {
				return fmt.Errorf("invalid --format %q (want text or json)", flagFormat)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.config/pt/prospects.db)")

	root.AddCommand(
		newListCmd(),
		newShowCmd(),
		newAddCmd(),
		newUpdateCmd(),
		newContactCmd(),
		newRemoveCmd(),
		newStatsCmd(),
		newActivityCmd(),
		newFiltersCmd(),
		newImportCmd(),
		newServeCmd(),
		newStatusCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// dbPath resolves the database path from --db, PT_DB_PATH, or the default.
func dbPath() (string, error) {
	if flagDB != "" {
		return flagDB, nil
	}
	if v := os.Getenv("PT_DB_PATH"); v != "" {
		return v, nil
	}
	return db.DefaultPath()
}

// openDB opens the SQLite database for commands that work on it directly.
func openDB() (*sql.DB, error) {
	path, err := dbPath()
	if err != nil {
		return nil, err
	}
	return db.Open(path)
}

// newAPIClient creates an HTTP client for the prospect tracker API.
func newAPIClient() *client.Client {
	return client.New(getServerURL())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}

// parseID parses a prospect ID argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid prospect ID: %s", arg)
	}
	return id, nil
}
