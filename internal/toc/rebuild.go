package toc

import (
	"log/slog"

	"github.com/salmonumbrella/retoc/internal/epub"
	"github.com/salmonumbrella/retoc/internal/outline"
)

// Result summarizes one rebuild: how many outline nodes were visited and how
// each resolved. Skipped subtrees are not visited, so Entries can be smaller
// than the parsed entry count when headings are missing entirely.
type Result struct {
	Entries  int `json:"entries"`
	Exact    int `json:"exact"`
	Fallback int `json:"fallback"`
	Skipped  int `json:"skipped"`

	Nav []epub.NavEntry `json:"-"`
}

// Rebuild resolves every outline node against the heading index in pre-order
// and assembles the isomorphic navigation forest. Nodes that cannot resolve
// at all (empty index) are omitted along with their subtrees; titles without
// an exact match bind to the first heading in the index with a warning.
func Rebuild(forest []*outline.Node, index []epub.Heading, log *slog.Logger) Result {
	b := &rebuilder{resolver: newResolver(index), log: log}
	b.result.Nav = b.assemble(forest)
	return b.result
}

type rebuilder struct {
	resolver *resolver
	log      *slog.Logger
	result   Result
}

func (b *rebuilder) assemble(nodes []*outline.Node) []epub.NavEntry {
	var entries []epub.NavEntry
	for _, node := range nodes {
		b.result.Entries++

		heading, oc := b.resolver.resolve(node.Title)
		switch oc {
		case matchSkipped:
			b.log.Error("no headings found in container, skipping entry", "title", node.Title)
			b.result.Skipped++
			continue
		case matchFallback:
			b.log.Warn("no heading matched title, using first heading as fallback",
				"title", node.Title, "doc", heading.DocHref)
			b.result.Fallback++
		default:
			b.result.Exact++
		}

		entries = append(entries, epub.NavEntry{
			Label:    node.Title,
			Href:     heading.DocHref + "#" + heading.Anchor,
			Children: b.assemble(node.Children),
		})
	}
	return entries
}
