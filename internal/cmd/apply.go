package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/retoc/internal/epub"
	"github.com/salmonumbrella/retoc/internal/outline"
	"github.com/salmonumbrella/retoc/internal/toc"
)

var applyCmd = &cobra.Command{
	Use:   "apply <epub> <outline> [output]",
	Short: "Rebuild an EPUB's table of contents from a markdown outline",
	Long: `Rebuild an EPUB's navigational table of contents from a markdown outline.

The outline file lists the desired ToC shape as markdown headers:

  # Part One
  ## Chapter 1
  ## Chapter 2
  # Part Two

Each title is matched case-insensitively against the h1-h6 headings in the
book's content documents. Titles with no exact match fall back to the first
heading in the book and log a warning. The outline can be read from stdin
with "-".

Without an output path the input EPUB is overwritten; either way the file
is replaced atomically and only after the whole book serialized cleanly.

Examples:
  retoc apply book.epub toc.md
  retoc apply book.epub toc.md fixed.epub
  cat toc.md | retoc apply book.epub - --output json`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runApply,
}

type applySummary struct {
	Output   string `json:"output"`
	Entries  int    `json:"entries"`
	Exact    int    `json:"exact"`
	Fallback int    `json:"fallback"`
	Skipped  int    `json:"skipped"`
}

func runApply(cmd *cobra.Command, args []string) error {
	epubPath := args[0]
	outlinePath := args[1]
	outPath := epubPath
	if len(args) == 3 {
		outPath = args[2]
	}

	logger.Info("reading outline", "path", outlinePath)
	text, err := readInputSource(outlinePath, stdinFromContext(cmd.Context()))
	if err != nil {
		return err
	}
	entries, err := outline.ParseEntries(text)
	if err != nil {
		return err
	}
	logger.Info("parsed outline", "entries", len(entries))
	forest := outline.BuildTree(entries)

	logger.Info("reading container", "path", epubPath)
	book, err := epub.Open(epubPath)
	if err != nil {
		return err
	}
	defer book.Close()

	docs := book.ContentDocuments()
	index, err := epub.ScanHeadings(docs)
	if err != nil {
		return epub.ReadError{Path: epubPath, Err: err}
	}
	logger.Info("indexed headings", "documents", len(docs), "headings", len(index))

	result := toc.Rebuild(forest, index, logger)
	book.SetNavigation(result.Nav)

	if err := epub.WriteFile(book, outPath); err != nil {
		return err
	}
	logger.Info("updated container", "path", outPath)

	summary := applySummary{
		Output:   outPath,
		Entries:  len(entries),
		Exact:    result.Exact,
		Fallback: result.Fallback,
		Skipped:  result.Skipped,
	}
	if structuredOutputRequested() {
		return printStructured(summary)
	}
	_, err = fmt.Fprintf(stdoutFromContext(cmd.Context()),
		"Updated %s (%d entries: %d exact, %d fallback, %d skipped)\n",
		summary.Output, summary.Entries, summary.Exact, summary.Fallback, summary.Skipped)
	return err
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
