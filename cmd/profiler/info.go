package main

import (
	"fmt"

	"github.com/climatescout/profiler/internal/storage"
	"github.com/spf13/cobra"
)

// InfoResult is the response for the info command.
type InfoResult struct {
	Workspace string        `json:"workspace"`
	Stats     storage.Stats `json:"stats"`
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show workspace summary",
	Long: `Show the workspace path and counts across the roster and archive:
authors, resolved identities, profiles, feedback states, and papers.

Example:
  profiler info --human`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	reg := mustLoadRegistry(root)
	arc := mustLoadArchive(root)

	db := mustOpenDatabase(root)
	defer db.Close()

	if _, _, err := db.RebuildFromStores(reg, arc); err != nil {
		exitWithError(ExitDataError, "rebuilding mirror: %v", err)
	}

	stats, err := db.Summary()
	if err != nil {
		exitWithError(ExitError, "summarizing: %v", err)
	}

	if humanOutput {
		fmt.Printf("Workspace: %s\n", root)
		fmt.Printf("  Authors: %d (%d resolved)\n", stats.Authors, stats.Resolved)
		fmt.Printf("  Profiles: %d (%d accepted, %d in revision)\n", stats.Profiled, stats.Accepted, stats.InRevision)
		fmt.Printf("  Papers: %d\n", stats.Papers)
	} else {
		outputJSON(InfoResult{Workspace: root, Stats: stats})
	}
	return nil
}
