package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <epub>",
	Short: "Print an EPUB's headings as a markdown outline",
	Long: `Print the EPUB's current headings as a markdown outline, one header line
per heading at its h1-h6 depth. The output is a valid outline file, so the
usual workflow is extract, edit, then apply.

Examples:
  retoc extract book.epub > toc.md
  retoc extract book.epub --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	index, err := scanContainer(args[0])
	if err != nil {
		return err
	}

	if structuredOutputRequested() {
		return printStructured(index)
	}

	out := stdoutFromContext(cmd.Context())
	for _, h := range index {
		if h.Text == "" {
			continue
		}
		fmt.Fprintf(out, "%s %s\n", strings.Repeat("#", h.Level), h.Text)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
