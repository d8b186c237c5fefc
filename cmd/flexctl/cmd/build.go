package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/datatrails/go-datatrails-flexbuffers/flexdoc"
)

var buildOutPath string

var buildCmd = &cobra.Command{
	Use:   "build <input.json|input.yaml>",
	Short: "Build a FlexBuffers document from a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		var v any
		if err := unmarshalInput(data, args[0], &v); err != nil {
			return err
		}

		buf, err := flexdoc.Marshal(v)
		if err != nil {
			return fmt.Errorf("building document: %w", err)
		}

		if buildOutPath == "" {
			_, err = cmd.OutOrStdout().Write(buf)
			return err
		}
		return os.WriteFile(buildOutPath, buf, 0o644)
	},
}

func unmarshalInput(data []byte, path string, v any) error {
	if isYAMLPath(path) {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

func isYAMLPath(path string) bool {
	for _, suffix := range []string{".yaml", ".yml"} {
		if len(path) >= len(suffix) && path[len(path)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutPath, "out", "O", "", "output file path (default: stdout)")
	rootCmd.AddCommand(buildCmd)
}
