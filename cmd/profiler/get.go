package main

import (
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <name-or-id>",
	Short: "Show an author's full roster record",
	Long: `Show one author's roster record: identity, profile, feedback state,
and tags. Lookup accepts the OpenAlex ID or the name (case and spacing
insensitive).

Example:
  profiler get "Jane Smith" --human`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	reg := mustLoadRegistry(root)

	rec, ok := reg.FindByIdentity(args[0])
	if !ok {
		rec, ok = reg.FindByName(args[0])
	}
	if !ok {
		exitWithError(ExitNotFound, "author %q not in roster", args[0])
	}

	if humanOutput {
		printAuthorHuman(rec, true)
	} else {
		outputJSON(rec)
	}
	return nil
}
