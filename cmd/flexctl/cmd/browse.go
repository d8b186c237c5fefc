package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/datatrails/go-datatrails-flexbuffers/cmd/flexctl/internal/tree"
	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
)

var browseCmd = &cobra.Command{
	Use:   "browse <document.fxb>",
	Short: "Interactively walk a FlexBuffers document's structure",
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

		p := tea.NewProgram(tree.NewBrowser(ref), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
