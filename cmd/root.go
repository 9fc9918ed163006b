// Package cmd contains the civicreporter CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "civicreporter",
	Short: "Municipal issue reporting backend",
	Long: `civicreporter serves the issue reporting API: residents submit reports of
potholes, broken streetlights and other civic problems, staff move them
through their lifecycle, and reporters are emailed at each step.

Configuration is read from the environment and an optional .env file.

Examples:
  civicreporter serve                        # Run the HTTP API
  civicreporter seed --file reference.yaml   # Load departments, categories and staff
  civicreporter stats                        # Print the current analytics snapshot`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statsCmd)
}
