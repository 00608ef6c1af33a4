package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get or set workspace configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show workspace configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a workspace configuration value",
	Long: `Set a workspace configuration value.

Keys:
  institution_id   OpenAlex institution ID constraining author search
  institution      Free-text institution name recorded on new authors
  reference_year   Fixed horizon for the citations-per-year metric

Example:
  profiler config set institution_id https://openalex.org/I27837315`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	cfg := mustLoadConfig(root)

	if humanOutput {
		fmt.Printf("Workspace: %s\n", root)
		fmt.Printf("  institution_id: %s\n", cfg.InstitutionID)
		fmt.Printf("  institution: %s\n", cfg.Institution)
		fmt.Printf("  reference_year: %d\n", cfg.ReferenceYear)
	} else {
		outputJSON(cfg)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	cfg := mustLoadConfig(root)

	key, value := args[0], args[1]
	switch key {
	case "institution_id":
		cfg.InstitutionID = value
	case "institution":
		cfg.Institution = value
	case "reference_year":
		year, err := strconv.Atoi(value)
		if err != nil || year <= 0 {
			exitWithError(ExitError, "reference_year must be a positive integer, got %q", value)
		}
		cfg.ReferenceYear = year
	default:
		exitWithError(ExitError, "unknown config key %q", key)
	}

	if err := cfg.Save(root); err != nil {
		exitWithError(ExitConfigError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}
