package epub

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// NavEntry is one navigation point: display label, target href
// (package-relative document path plus fragment), and nested entries.
type NavEntry struct {
	Label    string     `json:"label"`
	Href     string     `json:"href"`
	Children []NavEntry `json:"children,omitempty"`
}

const navDocShell = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
  <head>
    <title>%s</title>
  </head>
  <body>
    <nav epub:type="toc" id="toc">
      <h1>Table of Contents</h1>
%s
    </nav>
  </body>
</html>
`

type navOL struct {
	XMLName xml.Name `xml:"ol"`
	Items   []navLI
}

type navLI struct {
	XMLName xml.Name `xml:"li"`
	Anchor  navA
	Nested  *navOL
}

type navA struct {
	XMLName xml.Name `xml:"a"`
	Href    string   `xml:"href,attr"`
	Label   string   `xml:",chardata"`
}

// renderNavDoc generates the EPUB 3 navigation document for the forest.
// baseDir is the nav document's own directory relative to the package, so
// entry hrefs can be rewritten relative to it.
func renderNavDoc(title string, entries []NavEntry, baseDir string) ([]byte, error) {
	list := buildNavOL(entries, baseDir)
	if list == nil {
		list = &navOL{}
	}
	markup, err := xml.MarshalIndent(list, "      ", "  ")
	if err != nil {
		return nil, fmt.Errorf("render nav document: %w", err)
	}
	if title == "" {
		title = "Table of Contents"
	}
	return []byte(fmt.Sprintf(navDocShell, xmlEscape(title), "      "+string(markup))), nil
}

func buildNavOL(entries []NavEntry, baseDir string) *navOL {
	if len(entries) == 0 {
		return nil
	}
	list := &navOL{}
	for _, entry := range entries {
		list.Items = append(list.Items, navLI{
			Anchor: navA{Href: relHref(baseDir, entry.Href), Label: entry.Label},
			Nested: buildNavOL(entry.Children, baseDir),
		})
	}
	return list
}

// relHref rewrites a package-relative href (with optional fragment) to be
// relative to baseDir, itself package-relative.
func relHref(baseDir, href string) string {
	frag := ""
	if i := strings.IndexByte(href, '#'); i >= 0 {
		frag = href[i:]
		href = href[:i]
	}
	if baseDir == "" || baseDir == "." {
		return href + frag
	}

	base := strings.Split(path.Clean(baseDir), "/")
	target := strings.Split(path.Clean(href), "/")

	shared := 0
	for shared < len(base) && shared < len(target)-1 && base[shared] == target[shared] {
		shared++
	}
	parts := make([]string, 0, len(base)-shared+len(target)-shared)
	for range base[shared:] {
		parts = append(parts, "..")
	}
	parts = append(parts, target[shared:]...)
	return strings.Join(parts, "/") + frag
}

func xmlEscape(s string) string {
	var sb strings.Builder
	if err := xml.EscapeText(&sb, []byte(s)); err != nil {
		return s
	}
	return sb.String()
}
