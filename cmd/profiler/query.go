package main

import (
	"fmt"

	"github.com/climatescout/profiler/internal/storage"
	"github.com/spf13/cobra"
)

var (
	queryKeyword       string
	queryAuthor        string
	queryTitle         string
	queryTag           string
	queryYearFrom      int
	queryYearTo        int
	queryMinCites      float64
	queryCorresponding bool
	queryLimit         int
)

// QueryResult is the response for the query command.
type QueryResult struct {
	Papers []storage.PaperRow `json:"papers"`
	Total  int                `json:"total"`
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search the archived papers",
	Long: `Search the archived papers with full-text and structured filters.

All given filters must match. The mirror is rebuilt from the JSONL
stores before searching, so results always reflect the current data.

Examples:
  profiler query --keyword "direct air capture"
  profiler query --author Smith --year-from 2020
  profiler query --tag "Energy" --min-citations 5 --corresponding`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryKeyword, "keyword", "", "Full-text search across titles, abstracts, and author names")
	queryCmd.Flags().StringVar(&queryAuthor, "author", "", "Author name (prefix matched)")
	queryCmd.Flags().StringVar(&queryTitle, "title", "", "Search in titles only")
	queryCmd.Flags().StringVar(&queryTag, "tag", "", "Author climate challenge tag (substring match)")
	queryCmd.Flags().IntVar(&queryYearFrom, "year-from", 0, "Minimum publication year")
	queryCmd.Flags().IntVar(&queryYearTo, "year-to", 0, "Maximum publication year")
	queryCmd.Flags().Float64Var(&queryMinCites, "min-citations", 0, "Minimum citations per year")
	queryCmd.Flags().BoolVar(&queryCorresponding, "corresponding", false, "Only papers where the author is corresponding")
	queryCmd.Flags().IntVar(&queryLimit, "limit", DefaultQueryLimit, "Maximum number of results")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	reg := mustLoadRegistry(root)
	arc := mustLoadArchive(root)

	db := mustOpenDatabase(root)
	defer db.Close()

	if _, _, err := db.RebuildFromStores(reg, arc); err != nil {
		exitWithError(ExitDataError, "rebuilding mirror: %v", err)
	}

	filters := storage.SearchFilters{
		Keyword:       queryKeyword,
		Author:        queryAuthor,
		Title:         queryTitle,
		Tag:           queryTag,
		YearFrom:      queryYearFrom,
		YearTo:        queryYearTo,
		MinCitesPerYr: queryMinCites,
		Corresponding: queryCorresponding,
	}

	papers, err := db.SearchPapers(filters, queryLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if humanOutput {
		if len(papers) == 0 {
			fmt.Println("No matching papers")
			return nil
		}
		for i, p := range papers {
			fmt.Printf("%d. %s (%d)\n", i+1, truncateString(p.Title, ListTitleMaxLen), p.PublicationYear)
			fmt.Printf("   %s  %.2f citations/yr\n", p.AuthorName, p.CitationsPerYr)
			if p.Abstract != "" {
				fmt.Printf("   %s\n", truncateString(p.Abstract, AbstractSnippet))
			}
			fmt.Println()
		}
		fmt.Printf("%d paper(s)\n", len(papers))
	} else {
		outputJSON(QueryResult{Papers: papers, Total: len(papers)})
	}
	return nil
}
