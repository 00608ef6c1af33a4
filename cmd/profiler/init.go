package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/climatescout/profiler/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a profiler workspace",
	Long: `Initialize a profiler workspace in the given directory (default: current).

Creates the .profiler directory with a default config, empty author and
paper stores, and the query cache directory.

Example:
  profiler init
  profiler init ~/climate-outreach`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = config.ExpandPath(args[0])
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		exitWithError(ExitError, "resolving path: %v", err)
	}

	if config.IsWorkspace(abs) {
		exitWithError(ExitError, "workspace already exists at %s", abs)
	}

	if err := os.MkdirAll(config.CachePath(abs), 0755); err != nil {
		exitWithError(ExitError, "creating workspace: %v", err)
	}

	if err := config.DefaultConfig().Save(abs); err != nil {
		exitWithError(ExitError, "writing config: %v", err)
	}

	// Empty stores so a fresh workspace lists cleanly.
	for _, path := range []string{config.AuthorsPath(abs), config.PapersPath(abs)} {
		if err := os.WriteFile(path, nil, 0644); err != nil {
			exitWithError(ExitError, "creating store %s: %v", filepath.Base(path), err)
		}
	}

	if humanOutput {
		fmt.Printf("Initialized profiler workspace at %s\n", abs)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: abs})
	}
	return nil
}
