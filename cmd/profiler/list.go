package main

import (
	"fmt"

	"github.com/climatescout/profiler/internal/registry"
	"github.com/spf13/cobra"
)

var listStatus string

// ListEntry is one roster row in the list command output.
type ListEntry struct {
	Name     string   `json:"name"`
	Identity string   `json:"identity,omitempty"`
	Status   string   `json:"status"`
	Profiled bool     `json:"profiled"`
	Tags     []string `json:"tags,omitempty"`
}

// ListResult is the response for the list command.
type ListResult struct {
	Authors []ListEntry `json:"authors"`
	Total   int         `json:"total"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List authors in the roster",
	Long: `List all authors in the roster with their feedback status.

Filter by feedback status with --status (none, accepted,
revision_requested).

Example:
  profiler list
  profiler list --status revision_requested --human`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by feedback status")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	reg := mustLoadRegistry(root)

	entries := make([]ListEntry, 0, reg.Len())
	for _, rec := range reg.All() {
		if listStatus != "" && string(rec.Status()) != listStatus {
			continue
		}
		entries = append(entries, ListEntry{
			Name:     rec.DisplayName,
			Identity: rec.Identity,
			Status:   string(rec.Status()),
			Profiled: rec.ProfileText != "",
			Tags:     rec.Tags,
		})
	}

	if humanOutput {
		if len(entries) == 0 {
			fmt.Println("No authors in roster")
			return nil
		}
		for _, e := range entries {
			marker := " "
			if e.Status == string(registry.FeedbackAccepted) {
				marker = "*"
			}
			id := e.Identity
			if id == "" {
				id = "(unresolved)"
			}
			fmt.Printf("%s %-30s %-45s %s\n", marker, e.Name, id, e.Status)
		}
		fmt.Printf("\n%d author(s)\n", len(entries))
	} else {
		outputJSON(ListResult{Authors: entries, Total: len(entries)})
	}
	return nil
}
