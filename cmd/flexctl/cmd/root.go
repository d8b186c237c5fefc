package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	outputFormat string
)

// rootCmd is the base command for flexctl.
var rootCmd = &cobra.Command{
	Use:   "flexctl",
	Short: "flexctl builds, inspects, and queries FlexBuffers documents",
	Long: `flexctl is an operator-facing CLI for the FlexBuffers format.
It converts JSON/YAML into FlexBuffers documents, renders a document's
structure as a tree, and extracts individual values by path.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// RootCmd returns the root cobra.Command, for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "tree", "output format: tree, json, yaml")
}
