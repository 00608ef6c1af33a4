package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// IngestResult is the response for the ingest command.
type IngestResult struct {
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	Papers     int    `json:"papers"`
	Cached     bool   `json:"cached"`
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <name-or-id>",
	Short: "Fetch and archive an author's publications",
	Long: `Fetch an author's qualifying publications from OpenAlex and archive
them. The author must already be resolved.

Ingestion pages through the source to exhaustion and writes the complete
set at once. An author already in the archive is served from it without
re-fetching; zero qualifying papers is a valid, archived outcome.

Example:
  profiler ingest "Jane Smith"
  profiler ingest https://openalex.org/A5012345678`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	b := mustNewBuilder(root, false)

	rec, ok := b.Find(args[0])
	if !ok {
		exitWithError(ExitNotFound, "author %q not in roster; run resolve first", args[0])
	}
	if !rec.Resolved() {
		exitWithError(ExitError, "author %s has no resolved identity; run resolve first", rec.DisplayName)
	}

	cached := b.Archive.Has(rec.Identity)
	_, count, err := b.Ingest(context.Background(), rec.Identity, rec.DisplayName)
	if err != nil {
		exitWithPipelineError(err)
	}

	result := IngestResult{
		AuthorID:   rec.Identity,
		AuthorName: rec.DisplayName,
		Papers:     count,
		Cached:     cached,
	}

	if humanOutput {
		if cached {
			fmt.Printf("%s already archived: %d papers (cached)\n", result.AuthorName, result.Papers)
		} else {
			fmt.Printf("Archived %d papers for %s\n", result.Papers, result.AuthorName)
		}
	} else {
		outputJSON(result)
	}
	return nil
}
