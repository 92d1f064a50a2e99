// Package cli provides the Cobra-based docgate commands. Commands are thin
// glue: they walk files, load configuration, call the validation engine,
// and render results.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docgate",
	Short: "documentation quality gate",
	Long: `docgate validates a tree of generated text artifacts.

Each artifact is classified from its path, checked against a composable
schema contract, and cross-checked against the sibling artifacts it
references. The result is a per-artifact health score and a pass/fail gate.`,
	Example: `  # Validate a documentation tree with the local config
  docgate check ./docs

  # Validate against an explicit config file
  docgate check --config docgate.json ./docs

  # Print the flattened contract for a category
  docgate schema plan`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "docgate.json", "Path to the docgate config file")
}
