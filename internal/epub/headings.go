package epub

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Heading is one h1-h6 element found in a content document. Anchor is the
// element's id attribute when it has one, otherwise a synthesized identifier
// that is stable for the document's heading order.
type Heading struct {
	DocID   string `json:"doc"`
	DocHref string `json:"href"`
	Level   int    `json:"level"`
	Text    string `json:"text"`
	Anchor  string `json:"anchor"`
}

// ScanHeadings walks every content document in spine order and records each
// heading element in document order. Heading text is the element's text
// content with inner markup stripped and surrounding whitespace trimmed.
func ScanHeadings(docs []Document) ([]Heading, error) {
	var headings []Heading
	for _, doc := range docs {
		root, err := html.Parse(bytes.NewReader(doc.Data))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", doc.Href, err)
		}

		ordinal := 0
		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if n.Type == html.ElementNode {
				if level := headingLevel(n.Data); level > 0 {
					ordinal++
					headings = append(headings, Heading{
						DocID:   doc.ID,
						DocHref: doc.Href,
						Level:   level,
						Text:    textContent(n),
						Anchor:  anchorFor(n, ordinal),
					})
					return // text already extracted, skip nested nodes
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(root)
	}
	return headings, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// anchorFor prefers the element's own id attribute; headings without one get
// a synthesized id keyed to their ordinal position, which cannot collide with
// another synthesized id in the same document.
func anchorFor(n *html.Node, ordinal int) string {
	for _, attr := range n.Attr {
		if attr.Key == "id" && strings.TrimSpace(attr.Val) != "" {
			return strings.TrimSpace(attr.Val)
		}
	}
	return fmt.Sprintf("retoc-h%d", ordinal)
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}
