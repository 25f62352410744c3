package cmd

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/salmonumbrella/retoc/internal/epub"
)

func TestHeadingsCommandText(t *testing.T) {
	dir := t.TempDir()
	epubPath := filepath.Join(dir, "book.epub")
	writeHarnessEPUB(t, epubPath)

	stdout, stderr, err := runCLI(t, "", "--output", "text", "headings", epubPath)
	if err != nil {
		t.Fatalf("headings: %v (stderr: %s)", err, stderr)
	}

	want := "c1.xhtml#alpha\th1\tAlpha\n" +
		"c1.xhtml#retoc-h2\th2\tBeta\n" +
		"c2.xhtml#retoc-h1\th1\tGamma\n"
	if stdout != want {
		t.Errorf("headings output:\n%s\nwant:\n%s", stdout, want)
	}
}

func TestHeadingsCommandJSON(t *testing.T) {
	dir := t.TempDir()
	epubPath := filepath.Join(dir, "book.epub")
	writeHarnessEPUB(t, epubPath)

	stdout, stderr, err := runCLI(t, "", "--output", "json", "headings", epubPath)
	if err != nil {
		t.Fatalf("headings: %v (stderr: %s)", err, stderr)
	}

	var index []epub.Heading
	if err := json.Unmarshal([]byte(stdout), &index); err != nil {
		t.Fatalf("decode index: %v\n%s", err, stdout)
	}
	if len(index) != 3 {
		t.Fatalf("got %d headings, want 3", len(index))
	}
	if index[0].Anchor != "alpha" || index[0].Text != "Alpha" || index[0].Level != 1 {
		t.Errorf("unexpected first heading: %+v", index[0])
	}
}

func TestHeadingsCommandTable(t *testing.T) {
	dir := t.TempDir()
	epubPath := filepath.Join(dir, "book.epub")
	writeHarnessEPUB(t, epubPath)

	stdout, stderr, err := runCLI(t, "", "--output", "table", "headings", epubPath)
	if err != nil {
		t.Fatalf("headings: %v (stderr: %s)", err, stderr)
	}
	if !strings.Contains(stdout, "DOCUMENT") || !strings.Contains(stdout, "Gamma") {
		t.Errorf("table output missing headers or rows:\n%s", stdout)
	}
}

func TestExtractCommandRoundTripsThroughApply(t *testing.T) {
	dir := t.TempDir()
	epubPath := filepath.Join(dir, "book.epub")
	writeHarnessEPUB(t, epubPath)

	stdout, stderr, err := runCLI(t, "", "--output", "text", "extract", epubPath)
	if err != nil {
		t.Fatalf("extract: %v (stderr: %s)", err, stderr)
	}
	want := "# Alpha\n## Beta\n# Gamma\n"
	if stdout != want {
		t.Errorf("extract output = %q, want %q", stdout, want)
	}

	// The extracted outline feeds straight back into apply via stdin.
	summaryOut, stderr, err := runCLI(t, stdout, "--output", "json", "apply", epubPath, "-",
		filepath.Join(dir, "out.epub"))
	if err != nil {
		t.Fatalf("apply extracted outline: %v (stderr: %s)", err, stderr)
	}
	var summary applySummary
	if err := json.Unmarshal([]byte(summaryOut), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, summaryOut)
	}
	if summary.Exact != 3 {
		t.Errorf("round trip exact = %d, want 3\n%s", summary.Exact, summaryOut)
	}
}
