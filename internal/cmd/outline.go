package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/retoc/internal/outline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file|->",
	Short: "Parse an outline file and print the resulting tree",
	Long: `Parse a markdown outline and print the tree it would produce, without
touching any EPUB. Useful for checking nesting before an apply.

Examples:
  retoc outline toc.md
  retoc outline toc.md --output json --query '.[].title'
  cat toc.md | retoc outline -`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func runOutline(cmd *cobra.Command, args []string) error {
	text, err := readInputSource(args[0], stdinFromContext(cmd.Context()))
	if err != nil {
		return err
	}
	forest, err := outline.Parse(text)
	if err != nil {
		return err
	}

	if structuredOutputRequested() {
		return printStructured(forest)
	}

	writeOutlineText(stdoutFromContext(cmd.Context()), forest, 0)
	return nil
}

func writeOutlineText(w io.Writer, nodes []*outline.Node, depth int) {
	for _, node := range nodes {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), node.Title)
		writeOutlineText(w, node.Children, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(outlineCmd)
}
