package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/retoc/internal/epub"
	"github.com/salmonumbrella/retoc/internal/output"
)

var headingsCmd = &cobra.Command{
	Use:   "headings <epub>",
	Short: "List the headings retoc would match against",
	Long: `List every h1-h6 heading across the EPUB's content documents, in the
order the title matcher sees them: spine order, then document order.

Examples:
  retoc headings book.epub
  retoc headings book.epub --output table
  retoc headings book.epub --output json --query '.[] | select(.level == 1)'`,
	Args: cobra.ExactArgs(1),
	RunE: runHeadings,
}

func runHeadings(cmd *cobra.Command, args []string) error {
	index, err := scanContainer(args[0])
	if err != nil {
		return err
	}

	if GetOutputFormat() == output.FormatTable {
		table := output.Table{Headers: []string{"DOCUMENT", "LEVEL", "ANCHOR", "TEXT"}}
		for _, h := range index {
			table.AddRow(h.DocHref, fmt.Sprintf("h%d", h.Level), h.Anchor, h.Text)
		}
		return printStructured(table)
	}
	if structuredOutputRequested() {
		return printStructured(index)
	}

	out := stdoutFromContext(cmd.Context())
	for _, h := range index {
		fmt.Fprintf(out, "%s#%s\th%d\t%s\n", h.DocHref, h.Anchor, h.Level, h.Text)
	}
	return nil
}

// scanContainer opens an EPUB just long enough to build its heading index.
func scanContainer(path string) ([]epub.Heading, error) {
	book, err := epub.Open(path)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	index, err := epub.ScanHeadings(book.ContentDocuments())
	if err != nil {
		return nil, epub.ReadError{Path: path, Err: err}
	}
	return index, nil
}

func init() {
	rootCmd.AddCommand(headingsCmd)
}
