package epub

import (
	"encoding/xml"
	"fmt"
)

const ncxHeader = "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<!DOCTYPE ncx PUBLIC \"-//NISO//DTD ncx 2005-1//EN\" \"http://www.daisy.org/z3986/2005/ncx-2005-1.dtd\">\n"

type ncxRoot struct {
	XMLName xml.Name  `xml:"ncx"`
	Xmlns   string    `xml:"xmlns,attr"`
	Version string    `xml:"version,attr"`
	Head    ncxHead   `xml:"head"`
	Title   ncxText   `xml:"docTitle"`
	NavMap  ncxNavMap `xml:"navMap"`
}

type ncxHead struct {
	Metas []ncxMeta `xml:"meta"`
}

type ncxMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type ncxText struct {
	Text string `xml:"text"`
}

type ncxNavMap struct {
	Points []ncxNavPoint `xml:"navPoint"`
}

type ncxNavPoint struct {
	ID        string        `xml:"id,attr"`
	PlayOrder int           `xml:"playOrder,attr"`
	Label     ncxText       `xml:"navLabel"`
	Content   ncxContent    `xml:"content"`
	Points    []ncxNavPoint `xml:"navPoint"`
}

type ncxContent struct {
	Src string `xml:"src,attr"`
}

// renderNCX generates the EPUB 2 NCX for the forest. playOrder numbering is
// pre-order; baseDir is the NCX's own directory relative to the package.
func renderNCX(uid, title string, entries []NavEntry, baseDir string) ([]byte, error) {
	order := 0
	root := ncxRoot{
		Xmlns:   "http://www.daisy.org/z3986/2005/ncx/",
		Version: "2005-1",
		Head: ncxHead{Metas: []ncxMeta{
			{Name: "dtb:uid", Content: uid},
			{Name: "dtb:depth", Content: fmt.Sprint(forestDepth(entries))},
			{Name: "dtb:totalPageCount", Content: "0"},
			{Name: "dtb:maxPageNumber", Content: "0"},
		}},
		Title:  ncxText{Text: title},
		NavMap: ncxNavMap{Points: buildNavPoints(entries, baseDir, &order)},
	}

	markup, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render ncx: %w", err)
	}
	return append([]byte(ncxHeader), markup...), nil
}

func buildNavPoints(entries []NavEntry, baseDir string, order *int) []ncxNavPoint {
	var points []ncxNavPoint
	for _, entry := range entries {
		*order++
		point := ncxNavPoint{
			ID:        fmt.Sprintf("navPoint-%d", *order),
			PlayOrder: *order,
			Label:     ncxText{Text: entry.Label},
			Content:   ncxContent{Src: relHref(baseDir, entry.Href)},
		}
		point.Points = buildNavPoints(entry.Children, baseDir, order)
		points = append(points, point)
	}
	return points
}

func forestDepth(entries []NavEntry) int {
	depth := 0
	for _, entry := range entries {
		if d := 1 + forestDepth(entry.Children); d > depth {
			depth = d
		}
	}
	return depth
}
