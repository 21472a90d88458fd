package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// docxRun is one formatted run inside a paragraph.
type docxRun struct {
	Text      string
	Bold      bool
	ImageRels []string // relationship IDs of embedded images, in order
}

// docxParagraph is one paragraph from word/document.xml.
type docxParagraph struct {
	StyleID string
	Runs    []docxRun
}

// Text returns the concatenated run text of the paragraph.
func (p docxParagraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// HasImage reports whether any run carries an embedded image.
func (p docxParagraph) HasImage() bool {
	for _, r := range p.Runs {
		if len(r.ImageRels) > 0 {
			return true
		}
	}
	return false
}

// docxMediaEntry is one file under word/media/.
type docxMediaEntry struct {
	Name string // base name, e.g. image1.png
	Path string // archive path, e.g. word/media/image1.png
	Data []byte
}

// docxDocument is the parsed content of a DOCX archive. Both the
// geometric and the markup extraction paths read through this one
// reader so the parsing logic is not duplicated.
type docxDocument struct {
	Paragraphs []docxParagraph
	Media      []docxMediaEntry
	Rels       map[string]string // rId -> relationship target
	RawXML     []byte            // word/document.xml, kept for the fallback path
	ParseErr   error             // paragraph extraction failure, if any
}

// MediaByRel resolves a relationship ID to its media entry.
func (d *docxDocument) MediaByRel(relID string) (docxMediaEntry, bool) {
	target, ok := d.Rels[relID]
	if !ok {
		return docxMediaEntry{}, false
	}
	name := path.Base(target)
	for _, m := range d.Media {
		if m.Name == name {
			return m, true
		}
	}
	return docxMediaEntry{}, false
}

// openDocx reads a DOCX file (a zip archive) and parses document.xml,
// the document relationships and every embedded media entry. A
// malformed archive fails; a paragraph parsing failure is recorded on
// ParseErr so callers can fall back to raw XML stripping.
func openDocx(filePath string) (*docxDocument, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	doc := &docxDocument{Rels: make(map[string]string)}

	for _, f := range zr.File {
		switch {
		case f.Name == "word/document.xml":
			doc.RawXML, err = readZipEntry(f)
			if err != nil {
				return nil, fmt.Errorf("reading document.xml: %w", err)
			}
		case f.Name == "word/_rels/document.xml.rels":
			data, err := readZipEntry(f)
			if err != nil {
				continue
			}
			parseRelationships(data, doc.Rels)
		case strings.HasPrefix(f.Name, "word/media/"):
			data, err := readZipEntry(f)
			if err != nil {
				continue
			}
			doc.Media = append(doc.Media, docxMediaEntry{
				Name: path.Base(f.Name),
				Path: f.Name,
				Data: data,
			})
		}
	}

	if doc.RawXML == nil {
		return nil, fmt.Errorf("missing word/document.xml")
	}

	doc.Paragraphs, doc.ParseErr = parseDocxParagraphs(doc.RawXML)
	return doc, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseRelationships fills rels from word/_rels/document.xml.rels.
func parseRelationships(data []byte, rels map[string]string) {
	type relationship struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	}
	type relationships struct {
		Relationships []relationship `xml:"Relationship"`
	}

	var parsed relationships
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return
	}
	for _, r := range parsed.Relationships {
		rels[r.ID] = r.Target
	}
}

// parseDocxParagraphs walks the document.xml token stream and collects
// paragraphs with their runs, styles and image references.
func parseDocxParagraphs(rawXML []byte) ([]docxParagraph, error) {
	decoder := xml.NewDecoder(bytes.NewReader(rawXML))

	var (
		paragraphs []docxParagraph
		current    *docxParagraph
		run        *docxRun
		inRunProps bool
		inText     bool
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				current = &docxParagraph{}
			case "pStyle":
				if current != nil {
					current.StyleID = attrValue(t, "val")
				}
			case "r":
				if current != nil {
					run = &docxRun{}
				}
			case "rPr":
				inRunProps = true
			case "b":
				if run != nil && inRunProps {
					run.Bold = attrValue(t, "val") != "false" && attrValue(t, "val") != "0"
				}
			case "t":
				inText = true
			case "blip":
				if embed := attrValue(t, "embed"); embed != "" {
					if run != nil {
						run.ImageRels = append(run.ImageRels, embed)
					} else if current != nil {
						// drawing outside a run; attach to an implicit run
						current.Runs = append(current.Runs, docxRun{ImageRels: []string{embed}})
					}
				}
			}
		case xml.CharData:
			if inText && run != nil {
				run.Text += string(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "rPr":
				inRunProps = false
			case "r":
				if current != nil && run != nil {
					current.Runs = append(current.Runs, *run)
				}
				run = nil
			case "p":
				if current != nil {
					paragraphs = append(paragraphs, *current)
				}
				current = nil
			}
		}
	}

	return paragraphs, nil
}

func attrValue(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// stripDocumentXML is the degrade-gracefully fallback when paragraph
// extraction fails: parse the raw XML leniently and collect every text
// node into a single string.
func stripDocumentXML(rawXML []byte) string {
	node, err := html.Parse(bytes.NewReader(rawXML))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return sb.String()
}
