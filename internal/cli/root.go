// Package cli implements the gmab command-line interface.
package cli

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "gmab",
	Short: "Genetic multi-armed bandit optimizer",
	Long: `gmab optimizes noisy black-box objective functions over bounded
integer spaces by combining UCB-1 bandit sampling with genetic
recombination of the candidate population.

Studies against the built-in benchmark objectives can be run from a TOML
definition file or submitted over HTTP via 'gmab serve'.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(functionsCmd)
	rootCmd.AddCommand(versionCmd)
}
