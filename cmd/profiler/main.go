// Package main provides the profiler CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/climatescout/profiler/internal/archive"
	"github.com/climatescout/profiler/internal/builder"
	"github.com/climatescout/profiler/internal/config"
	"github.com/climatescout/profiler/internal/llm"
	"github.com/climatescout/profiler/internal/openalex"
	"github.com/climatescout/profiler/internal/profile"
	"github.com/climatescout/profiler/internal/registry"
	"github.com/climatescout/profiler/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "profiler",
	Short: "Researcher profile builder for climate outreach",
	Long: `profiler builds outreach profiles for climate researchers.

Core features:
  - Author identity resolution against OpenAlex, scoped to one institution
  - Exhaustive ingestion of an author's qualifying publications
  - LLM-written outreach profiles with climate challenge tags
  - A feedback loop: accept a profile as-is or request a revision
  - Ad-hoc querying over the archived papers

Data is stored in git-versionable JSONL with ephemeral SQLite for queries.
All commands output JSON by default for AI agent integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getStartingDirectory returns the directory to start searching for a workspace.
// Checks global config workspace_path first, then current working directory.
func getStartingDirectory() (string, int) {
	if root := config.GetWorkspacePath(); root != "" {
		return root, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindWorkspace finds and validates the workspace, exits on error.
// Returns the workspace root path.
func mustFindWorkspace() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	root, err := config.FindWorkspace(start)
	if err != nil {
		// Show helpful message if no global config exists
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return root
}

// mustLoadConfig loads workspace configuration, exits on error.
func mustLoadConfig(root string) *config.Config {
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustLoadRegistry loads the author roster, exits on error. A quarantined
// store is reported but not fatal; the roster restarts empty.
func mustLoadRegistry(root string) *registry.Registry {
	reg, err := registry.Load(config.AuthorsPath(root))
	if err != nil {
		exitWithError(ExitDataError, "loading roster: %v", err)
	}
	if reg.Quarantined() != "" {
		fmt.Fprintf(os.Stderr, "warning: corrupt roster moved to %s; starting empty\n", reg.Quarantined())
	}
	if n := reg.DuplicatesDropped(); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: dropped %d duplicate roster records\n", n)
	}
	return reg
}

// mustLoadArchive loads the paper archive, exits on error.
func mustLoadArchive(root string) *archive.Archive {
	arc, err := archive.Load(config.PapersPath(root))
	if err != nil {
		exitWithError(ExitDataError, "loading paper archive: %v", err)
	}
	if arc.Quarantined() != "" {
		fmt.Fprintf(os.Stderr, "warning: corrupt archive moved to %s; starting empty\n", arc.Quarantined())
	}
	return arc
}

// mustOpenDatabase opens the SQLite query mirror, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(root string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// newSource builds the OpenAlex client, joining the polite pool when a
// contact address is configured.
func newSource() *openalex.Client {
	_ = godotenv.Load()
	if mailto := config.GetOpenAlexMailto(); mailto != "" {
		return openalex.NewClient(openalex.WithMailto(mailto))
	}
	return openalex.NewClient()
}

// mustNewGenerator builds the profile generator, exits if no API key is
// configured.
func mustNewGenerator() *profile.Synthesizer {
	_ = godotenv.Load()
	apiKey := config.GetOpenAIAPIKey()
	if apiKey == "" {
		exitWithError(ExitConfigError, "OPENAI_API_KEY not set\n\nExport it, add it to .env, or set openai_api_key in %s", config.GlobalConfigPath())
	}

	var opts []llm.Option
	if model := config.GetOpenAIModel(); model != "" {
		opts = append(opts, llm.WithModel(model))
	}
	return profile.NewSynthesizer(llm.NewClient(apiKey, opts...))
}

// mustNewBuilder wires the full pipeline for a workspace. Commands that
// never reach the generator pass needGen false so a missing API key does
// not block them.
func mustNewBuilder(root string, needGen bool) *builder.Builder {
	cfg := mustLoadConfig(root)

	b := &builder.Builder{
		Registry:      mustLoadRegistry(root),
		Archive:       mustLoadArchive(root),
		Source:        newSource(),
		InstitutionID: cfg.InstitutionID,
		Institution:   cfg.Institution,
		ReferenceYear: cfg.ReferenceYear,
	}
	if needGen {
		b.Gen = mustNewGenerator()
	}
	return b
}
