package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/prospect-tracker/internal/prospect"
	"github.com/evcraddock/prospect-tracker/internal/seed"
)

func newImportCmd() *cobra.Command {
	var reset bool
	var details string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-load prospects from a seed file",
		Long: "Insert every prospect in a JSON or YAML seed file into the local database in one transaction. " +
			"If any entry is invalid nothing is imported. --reset deletes the database file first.",
		Example: `  pt import prospects.json
  pt import prospects.yaml --reset --db ./dev.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := seed.Load(args[0])
			if err != nil {
				return err
			}

			if reset {
				if err := removeDatabase(); err != nil {
					return err
				}
			}

			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			store := prospect.NewStore(database)
			n, err := store.Import(cmd.Context(), items, details)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd.OutOrStdout(), map[string]int{"imported": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d prospects.\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "delete the existing database before importing")
	cmd.Flags().StringVar(&details, "details", "", "activity log details for each imported prospect")

	return cmd
}

// removeDatabase deletes the database file and its WAL side files.
func removeDatabase() error {
	path, err := dbPath()
	if err != nil {
		return err
	}
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return nil
}
