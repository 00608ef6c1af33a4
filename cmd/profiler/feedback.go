package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	feedbackAccept bool
	feedbackText   string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <name-or-id>",
	Short: "Accept a profile or request a revision",
	Long: `Record reviewer feedback on an author's profile.

Pass --accept to mark the generated profile final, or --text to request
a revision: the feedback is folded into a revised profile that
lands alongside the original, never over it. Revision feedback is capped
at 200 characters and can be submitted again to overwrite an earlier
revision.

Examples:
  profiler feedback "Jane Smith" --accept
  profiler feedback "Jane Smith" --text "Mention the methane work"`,
	Args: cobra.ExactArgs(1),
	RunE: runFeedback,
}

func init() {
	feedbackCmd.Flags().BoolVar(&feedbackAccept, "accept", false, "Accept the generated profile as-is")
	feedbackCmd.Flags().StringVar(&feedbackText, "text", "", "Revision request to fold into the profile")
	feedbackCmd.MarkFlagsMutuallyExclusive("accept", "text")
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()

	if feedbackAccept {
		b := mustNewBuilder(root, false)
		rec, err := b.Accept(args[0])
		if err != nil {
			exitWithPipelineError(err)
		}
		if humanOutput {
			fmt.Printf("Accepted profile for %s\n", rec.DisplayName)
		} else {
			outputJSON(rec)
		}
		return nil
	}

	if feedbackText == "" {
		exitWithError(ExitError, "either --accept or --text is required")
	}

	b := mustNewBuilder(root, true)
	rec, err := b.Revise(context.Background(), args[0], feedbackText)
	if err != nil {
		exitWithPipelineError(err)
	}

	if humanOutput {
		fmt.Printf("Revised profile for %s\n\n", rec.DisplayName)
		printAuthorHuman(rec, true)
	} else {
		outputJSON(rec)
	}
	return nil
}
