package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addID          string
	addEmail       string
	addInstitution string
)

// AddResult is the response for the add command.
type AddResult struct {
	Name     string `json:"name"`
	Identity string `json:"identity,omitempty"`
	Papers   int    `json:"papers"`
	Profiled bool   `json:"profiled"`
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Resolve, ingest, and profile an author in one step",
	Long: `Run the full pipeline for one author: resolve the name against
OpenAlex, archive their qualifying publications, and generate an
outreach profile.

Each stage is idempotent, so re-running after a partial failure resumes
where the last run stopped. A name with no OpenAlex match is recorded as
unresolved and the pipeline stops there.

Examples:
  profiler add "Jane Smith"
  profiler add "Jane Smith" --id https://openalex.org/A5012345678
  profiler add "Jane Smith" --email j.smith@imperial.ac.uk`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addID, "id", "", "Known OpenAlex author ID, skips the remote search")
	addCmd.Flags().StringVar(&addEmail, "email", "", "Contact address to record on the roster entry")
	addCmd.Flags().StringVar(&addInstitution, "institution", "", "Institution name to record instead of the workspace default")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	b := mustNewBuilder(root, true)
	if addInstitution != "" {
		b.Institution = addInstitution
	}
	ctx := context.Background()
	name := args[0]

	if addID != "" {
		if _, err := b.ResolveByID(addID, name); err != nil {
			exitWithPipelineError(err)
		}
	}

	rec, count, err := b.Build(ctx, name)
	if err != nil {
		exitWithPipelineError(err)
	}

	if addEmail != "" && rec.Contact != addEmail {
		rec.Contact = addEmail
		if err := b.Registry.Upsert(rec); err != nil {
			exitWithError(ExitDataError, "recording contact: %v", err)
		}
		if err := b.Registry.Save(); err != nil {
			exitWithError(ExitDataError, "saving roster: %v", err)
		}
	}

	result := AddResult{
		Name:     rec.DisplayName,
		Identity: rec.Identity,
		Papers:   count,
		Profiled: rec.ProfileText != "",
	}

	if humanOutput {
		if !rec.Resolved() {
			fmt.Printf("No OpenAlex match for %s; recorded as unresolved\n", result.Name)
		} else {
			fmt.Printf("Added %s (%s): %d papers\n\n", result.Name, result.Identity, result.Papers)
			printAuthorHuman(rec, true)
		}
	} else {
		outputJSON(result)
	}
	return nil
}
