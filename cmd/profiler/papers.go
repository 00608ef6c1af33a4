package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var papersCmd = &cobra.Command{
	Use:   "papers <name-or-id>",
	Short: "List an author's archived papers",
	Long: `List the archived papers for one author, straight from the paper
archive.

Example:
  profiler papers "Jane Smith" --human`,
	Args: cobra.ExactArgs(1),
	RunE: runPapers,
}

func init() {
	rootCmd.AddCommand(papersCmd)
}

func runPapers(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	reg := mustLoadRegistry(root)
	arc := mustLoadArchive(root)

	rec, ok := reg.FindByIdentity(args[0])
	if !ok {
		rec, ok = reg.FindByName(args[0])
	}
	if !ok {
		exitWithError(ExitNotFound, "author %q not in roster", args[0])
	}
	if !rec.Resolved() {
		exitWithError(ExitError, "author %s has no resolved identity", rec.DisplayName)
	}

	entry, ok := arc.Get(rec.Identity)
	if !ok {
		exitWithError(ExitNotFound, "no archived papers for %s; run ingest first", rec.DisplayName)
	}

	if humanOutput {
		fmt.Printf("%s: %d paper(s)\n\n", entry.AuthorName, len(entry.Papers))
		for i, p := range entry.Papers {
			corr := ""
			if p.IsCorresponding {
				corr = " [corresponding]"
			}
			fmt.Printf("%d. %s (%d)%s\n", i+1, truncateString(p.Title, ListTitleMaxLen), p.PublicationYear, corr)
			fmt.Printf("   %s  cited %d (%.2f/yr)\n", p.ID, p.CitedByCount, p.CitationsPerYr)
		}
	} else {
		outputJSON(entry)
	}
	return nil
}
