package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/salmonumbrella/retoc/internal/outline"
)

func TestOutlineCommandJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toc.md")
	if err := os.WriteFile(path, []byte("# Alpha\n## Beta\n# Gamma\n"), 0o644); err != nil {
		t.Fatalf("write outline: %v", err)
	}

	stdout, stderr, err := runCLI(t, "", "--output", "json", "outline", path)
	if err != nil {
		t.Fatalf("outline: %v (stderr: %s)", err, stderr)
	}

	var forest []*outline.Node
	if err := json.Unmarshal([]byte(stdout), &forest); err != nil {
		t.Fatalf("decode forest: %v\n%s", err, stdout)
	}
	if len(forest) != 2 {
		t.Fatalf("got %d roots, want 2", len(forest))
	}
	if forest[0].Title != "Alpha" || len(forest[0].Children) != 1 || forest[0].Children[0].Title != "Beta" {
		t.Errorf("unexpected first root: %+v", forest[0])
	}
	if forest[1].Title != "Gamma" {
		t.Errorf("second root = %q, want Gamma", forest[1].Title)
	}
}

func TestOutlineCommandQuery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toc.md")
	if err := os.WriteFile(path, []byte("# Alpha\n## Beta\n"), 0o644); err != nil {
		t.Fatalf("write outline: %v", err)
	}

	stdout, stderr, err := runCLI(t, "", "--output", "json", "--query", ".[0].title", "outline", path)
	if err != nil {
		t.Fatalf("outline: %v (stderr: %s)", err, stderr)
	}
	if strings.TrimSpace(stdout) != `"Alpha"` {
		t.Errorf("query output = %q, want %q", strings.TrimSpace(stdout), `"Alpha"`)
	}
}

func TestOutlineCommandReadsStdin(t *testing.T) {
	stdout, stderr, err := runCLI(t, "# Solo\n", "--output", "json", "outline", "-")
	if err != nil {
		t.Fatalf("outline: %v (stderr: %s)", err, stderr)
	}

	var forest []*outline.Node
	if err := json.Unmarshal([]byte(stdout), &forest); err != nil {
		t.Fatalf("decode forest: %v\n%s", err, stdout)
	}
	if len(forest) != 1 || forest[0].Title != "Solo" {
		t.Errorf("unexpected forest: %s", stdout)
	}
}

func TestOutlineCommandText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toc.md")
	if err := os.WriteFile(path, []byte("# Alpha\n## Beta\n"), 0o644); err != nil {
		t.Fatalf("write outline: %v", err)
	}

	stdout, stderr, err := runCLI(t, "", "--output", "text", "outline", path)
	if err != nil {
		t.Fatalf("outline: %v (stderr: %s)", err, stderr)
	}
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), stdout)
	}
	if lines[0] != "Alpha" {
		t.Errorf("line 0 = %q, want %q", lines[0], "Alpha")
	}
	if !strings.HasSuffix(lines[1], "Beta") || !strings.HasPrefix(lines[1], "  ") {
		t.Errorf("line 1 = %q, want indented Beta", lines[1])
	}
}
