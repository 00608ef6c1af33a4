package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SyncResult is the response for the sync command.
type SyncResult struct {
	Authors int `json:"authors"`
	Papers  int `json:"papers"`
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the SQLite query mirror",
	Long: `Rebuild the SQLite query mirror from the JSONL source of truth.

Use this after manually editing the JSONL stores or after pulling
changes from git. The mirror lives under .profiler/cache and is safe to
delete at any time.

Example:
  profiler sync`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	reg := mustLoadRegistry(root)
	arc := mustLoadArchive(root)

	db := mustOpenDatabase(root)
	defer db.Close()

	authors, papers, err := db.RebuildFromStores(reg, arc)
	if err != nil {
		exitWithError(ExitDataError, "rebuilding mirror: %v", err)
	}

	if humanOutput {
		fmt.Printf("Synced %d authors, %d papers\n", authors, papers)
	} else {
		outputJSON(SyncResult{Authors: authors, Papers: papers})
	}
	return nil
}
