package main

import (
	"context"

	"github.com/spf13/cobra"
)

var profileForce bool

var profileCmd = &cobra.Command{
	Use:   "profile <name-or-id>",
	Short: "Generate an outreach profile for an archived author",
	Long: `Generate an outreach profile from an author's archived papers.

An author who already has a profile is left untouched unless --force is
given; revisions normally come from the feedback loop, not regeneration.

Requires OPENAI_API_KEY (environment, .env, or global config).

Example:
  profiler profile "Jane Smith"
  profiler profile "Jane Smith" --force`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().BoolVar(&profileForce, "force", false, "Regenerate even if a profile already exists")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	b := mustNewBuilder(root, true)

	rec, err := b.Synthesize(context.Background(), args[0], profileForce)
	if err != nil {
		exitWithPipelineError(err)
	}

	if humanOutput {
		printAuthorHuman(rec, true)
	} else {
		outputJSON(rec)
	}
	return nil
}
