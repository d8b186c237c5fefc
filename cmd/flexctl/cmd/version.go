package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// flexctlVersion is set at build time via -ldflags
// "-X github.com/datatrails/go-datatrails-flexbuffers/cmd/flexctl/cmd.flexctlVersion=x.y.z".
var flexctlVersion = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the flexctl version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "flexctl version %s\n", flexctlVersion)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
