package toc

import (
	"strings"

	"github.com/salmonumbrella/retoc/internal/epub"
)

type outcome int

const (
	matchExact outcome = iota
	matchFallback
	matchSkipped
)

// resolver binds outline titles to headings from the one-per-run index
// snapshot. Anchors bound by exact matches are marked consumed so two titles
// only share an anchor when no unconsumed equal heading remains.
type resolver struct {
	index    []epub.Heading
	consumed map[string]bool
}

func newResolver(index []epub.Heading) *resolver {
	return &resolver{index: index, consumed: make(map[string]bool)}
}

// resolve applies the resolution chain for one title: case-insensitive exact
// match in index order, then fallback to the first heading overall, then skip
// when the index is empty entirely.
func (r *resolver) resolve(title string) (epub.Heading, outcome) {
	first := -1
	for i, h := range r.index {
		if !strings.EqualFold(h.Text, title) {
			continue
		}
		if first < 0 {
			first = i
		}
		if !r.consumed[anchorKey(h)] {
			r.consumed[anchorKey(h)] = true
			return h, matchExact
		}
	}
	if first >= 0 {
		// Every equal heading is already bound; reuse the first one.
		return r.index[first], matchExact
	}

	if len(r.index) > 0 {
		return r.index[0], matchFallback
	}
	return epub.Heading{}, matchSkipped
}

func anchorKey(h epub.Heading) string {
	return h.DocHref + "#" + h.Anchor
}
