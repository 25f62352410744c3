package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	containerPath = "META-INF/container.xml"

	mediaTypeXHTML = "application/xhtml+xml"
	mediaTypeHTML  = "text/html"
	mediaTypeNCX   = "application/x-dtbncx+xml"
)

// Document is one content document from the container, in spine order.
// Href is relative to the package (OPF) directory.
type Document struct {
	ID   string
	Href string
	Data []byte
}

// Container is an opened EPUB archive. It holds the original zip entries so
// serialization can copy everything except the navigation resources
// byte for byte.
type Container struct {
	path string
	zr   *zip.ReadCloser

	opfPath string
	opfDir  string
	opfRaw  []byte

	uid   string
	title string

	docs []Document

	// navHref / ncxHref are package-relative hrefs of the EPUB 3 nav
	// document and the EPUB 2 NCX; empty when the container has none.
	navHref  string
	ncxHref  string
	navAdded bool
	navID    string

	// nav is the staged replacement navigation, which may legitimately be
	// empty; navStaged records that SetNavigation was called at all.
	nav       []NavEntry
	navStaged bool
}

type containerXML struct {
	Rootfiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

type opfPackage struct {
	XMLName  xml.Name `xml:"package"`
	UniqueID string   `xml:"unique-identifier,attr"`
	Metadata struct {
		Identifiers []struct {
			ID    string `xml:"id,attr"`
			Value string `xml:",chardata"`
		} `xml:"identifier"`
		Titles []string `xml:"title"`
	} `xml:"metadata"`
	Manifest struct {
		Items []manifestItem `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		TOC      string `xml:"toc,attr"`
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

type manifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

// Open reads an EPUB container from disk: the zip directory, the OCF
// container descriptor, the OPF package, and all spine content documents.
// Any structural failure is reported as a ReadError.
func Open(epubPath string) (*Container, error) {
	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, ReadError{Path: epubPath, Err: err}
	}

	c := &Container{path: epubPath, zr: zr}
	if err := c.load(); err != nil {
		zr.Close()
		return nil, ReadError{Path: epubPath, Err: err}
	}
	return c, nil
}

func (c *Container) load() error {
	descriptor, err := c.readEntry(containerPath)
	if err != nil {
		return err
	}
	var ocf containerXML
	if err := xml.Unmarshal(descriptor, &ocf); err != nil {
		return fmt.Errorf("parse %s: %w", containerPath, err)
	}
	if len(ocf.Rootfiles) == 0 || ocf.Rootfiles[0].FullPath == "" {
		return fmt.Errorf("no rootfile declared in %s", containerPath)
	}
	c.opfPath = ocf.Rootfiles[0].FullPath
	c.opfDir = path.Dir(c.opfPath)

	c.opfRaw, err = c.readEntry(c.opfPath)
	if err != nil {
		return err
	}
	var pkg opfPackage
	if err := xml.Unmarshal(c.opfRaw, &pkg); err != nil {
		return fmt.Errorf("parse %s: %w", c.opfPath, err)
	}

	if len(pkg.Metadata.Titles) > 0 {
		c.title = strings.TrimSpace(pkg.Metadata.Titles[0])
	}
	for _, id := range pkg.Metadata.Identifiers {
		if c.uid == "" || id.ID == pkg.UniqueID {
			c.uid = strings.TrimSpace(id.Value)
		}
	}

	items := make(map[string]manifestItem, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		items[item.ID] = item
		if strings.Contains(item.Properties, "nav") {
			c.navHref = item.Href
			c.navID = item.ID
		}
		if item.MediaType == mediaTypeNCX {
			c.ncxHref = item.Href
		}
	}
	if ncx, ok := items[pkg.Spine.TOC]; ok && c.ncxHref == "" {
		c.ncxHref = ncx.Href
	}

	for _, ref := range pkg.Spine.ItemRefs {
		item, ok := items[ref.IDRef]
		if !ok {
			return fmt.Errorf("spine references unknown manifest item %q", ref.IDRef)
		}
		if item.MediaType != mediaTypeXHTML && item.MediaType != mediaTypeHTML {
			continue
		}
		if c.navID != "" && item.ID == c.navID {
			continue
		}
		data, err := c.readEntry(c.resolve(item.Href))
		if err != nil {
			return err
		}
		c.docs = append(c.docs, Document{ID: item.ID, Href: item.Href, Data: data})
	}

	return nil
}

// resolve converts a package-relative href into a zip entry name.
func (c *Container) resolve(href string) string {
	if c.opfDir == "." || c.opfDir == "" {
		return href
	}
	return path.Join(c.opfDir, href)
}

func (c *Container) readEntry(name string) ([]byte, error) {
	for _, f := range c.zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", name, err)
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", name, err)
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("missing entry %s", name)
}

// Path returns the filesystem path the container was opened from.
func (c *Container) Path() string { return c.path }

// Title returns the package title, or "" when the metadata has none.
func (c *Container) Title() string { return c.title }

// ContentDocuments returns the spine-ordered content documents. The
// navigation document itself is excluded.
func (c *Container) ContentDocuments() []Document { return c.docs }

// SetNavigation stages the replacement navigation forest. Containers with
// neither a nav document nor an NCX get a nav document added next to the
// package file at serialization time.
func (c *Container) SetNavigation(forest []NavEntry) {
	c.nav = forest
	c.navStaged = true
	if c.navHref == "" && c.ncxHref == "" {
		c.navHref = "nav.xhtml"
		c.navAdded = true
	}
}

// Close releases the underlying zip handle.
func (c *Container) Close() error { return c.zr.Close() }

// WriteTo serializes the container. Entries other than the navigation
// resources (and, when a nav document is being added, the package file) are
// raw-copied so their bytes and compression are untouched; the zip entry
// order, including the leading stored mimetype, is preserved.
func (c *Container) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)

	for _, f := range c.zr.File {
		replacement, err := c.replacementFor(f.Name)
		if err != nil {
			return err
		}
		if replacement != nil {
			if err := writeEntry(zw, f.Name, replacement); err != nil {
				return err
			}
			continue
		}
		if err := copyRaw(zw, f); err != nil {
			return err
		}
	}

	if c.navStaged && c.navAdded {
		data, err := renderNavDoc(c.title, c.nav, path.Dir(c.navHref))
		if err != nil {
			return err
		}
		if err := writeEntry(zw, c.resolve(c.navHref), data); err != nil {
			return err
		}
	}

	return zw.Close()
}

// replacementFor returns generated content for entries the staged navigation
// replaces, or nil when the entry passes through unchanged.
func (c *Container) replacementFor(name string) ([]byte, error) {
	if !c.navStaged {
		return nil, nil
	}
	switch {
	case c.navHref != "" && !c.navAdded && name == c.resolve(c.navHref):
		return renderNavDoc(c.title, c.nav, path.Dir(c.navHref))
	case c.ncxHref != "" && name == c.resolve(c.ncxHref):
		return renderNCX(c.uid, c.title, c.nav, path.Dir(c.ncxHref))
	case c.navAdded && name == c.opfPath:
		return c.patchedOPF()
	}
	return nil, nil
}

// patchedOPF splices a manifest item for the added nav document into the raw
// package bytes, leaving everything else in the file untouched.
func (c *Container) patchedOPF() ([]byte, error) {
	closing := []byte("</manifest>")
	if !bytes.Contains(c.opfRaw, closing) {
		return nil, fmt.Errorf("cannot add nav document: no </manifest> in %s", c.opfPath)
	}
	item := fmt.Sprintf("<item id=%q href=%q media-type=%q properties=\"nav\"/>\n", c.navManifestID(), c.navHref, mediaTypeXHTML)
	return bytes.Replace(c.opfRaw, closing, append([]byte(item), closing...), 1), nil
}

func (c *Container) navManifestID() string {
	taken := make(map[string]bool)
	var pkg opfPackage
	if err := xml.Unmarshal(c.opfRaw, &pkg); err == nil {
		for _, item := range pkg.Manifest.Items {
			taken[item.ID] = true
		}
	}
	id := "nav"
	for n := 2; taken[id]; n++ {
		id = fmt.Sprintf("nav%d", n)
	}
	return id
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func copyRaw(zw *zip.Writer, f *zip.File) error {
	r, err := f.OpenRaw()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	header := f.FileHeader
	w, err := zw.CreateRaw(&header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, r)
	return err
}
