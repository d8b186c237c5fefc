package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/datatrails/go-datatrails-flexbuffers/cmd/flexctl/internal/tree"
	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
	"github.com/datatrails/go-datatrails-flexbuffers/flexdoc"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <document.fxb>",
	Short: "Show the structure of a FlexBuffers document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		ref, err := flexbuffers.GetRoot(buf)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}

		switch outputFormat {
		case "json", "yaml":
			var v any
			if err := flexdoc.UnmarshalReference(ref, &v); err != nil {
				return fmt.Errorf("decoding %s: %w", args[0], err)
			}
			return writeAs(cmd, outputFormat, v)
		default:
			fmt.Fprintln(cmd.OutOrStdout(), tree.Render(ref))
			return nil
		}
	},
}

func writeAs(cmd *cobra.Command, format string, v any) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
