package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resolveID string

// ResolveResult is the response for the resolve command.
type ResolveResult struct {
	Name     string `json:"name"`
	Identity string `json:"identity,omitempty"`
	Resolved bool   `json:"resolved"`
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <name>",
	Short: "Resolve an author name to an OpenAlex identity",
	Long: `Resolve an author name to an OpenAlex identity, scoped to the
configured institution.

The name is recorded in the roster before the remote lookup, so a failed
search still leaves a placeholder that a later run can resolve. Pass --id
to record a known identity directly and skip the search.

Examples:
  profiler resolve "Jane Smith"
  profiler resolve "Jane Smith" --id https://openalex.org/A5012345678`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveID, "id", "", "Known OpenAlex author ID, skips the remote search")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	b := mustNewBuilder(root, false)

	name := args[0]
	var identity string

	if resolveID != "" {
		rec, err := b.ResolveByID(resolveID, name)
		if err != nil {
			exitWithPipelineError(err)
		}
		identity = rec.Identity
	} else {
		var err error
		identity, name, err = b.Resolve(context.Background(), name)
		if err != nil {
			exitWithPipelineError(err)
		}
	}

	result := ResolveResult{Name: name, Identity: identity, Resolved: identity != ""}

	if humanOutput {
		if result.Resolved {
			fmt.Printf("Resolved %s: %s\n", result.Name, result.Identity)
		} else {
			fmt.Printf("No match for %s; recorded as unresolved\n", result.Name)
		}
	} else {
		outputJSON(result)
	}
	return nil
}
