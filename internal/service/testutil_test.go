package service

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// testLogger is a no-op domain.Logger for tests.
type testLogger struct{}

func (testLogger) Info(msg string, fields ...interface{})             {}
func (testLogger) Error(msg string, err error, fields ...interface{}) {}
func (testLogger) Debug(msg string, fields ...interface{})            {}
func (testLogger) Warn(msg string, fields ...interface{})             {}

// docxFixture describes an in-memory DOCX for tests.
type docxFixture struct {
	DocumentXML string
	RelsXML     string
	Media       map[string][]byte // name under word/media/ -> bytes
}

// writeDocx builds a minimal DOCX archive on disk and returns its path.
func writeDocx(t *testing.T, fixture docxFixture) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := map[string][]byte{
		"[Content_Types].xml": []byte(`<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`),
		"word/document.xml":   []byte(fixture.DocumentXML),
	}
	if fixture.RelsXML != "" {
		entries["word/_rels/document.xml.rels"] = []byte(fixture.RelsXML)
	}
	for name, data := range fixture.Media {
		entries["word/media/"+name] = data
	}

	for name, data := range entries {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", name, err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatalf("writing zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}

	path := filepath.Join(t.TempDir(), "fixture.docx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing docx fixture: %v", err)
	}
	return path
}

// labeledImageDocx is a document with a heading, a label immediately
// followed by an inline image, and a trailing paragraph.
func labeledImageDocx(t *testing.T) string {
	t.Helper()
	return writeDocx(t, docxFixture{
		DocumentXML: `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
            xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
            xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <w:body>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
      <w:r><w:t>文档标题</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>重要信息</w:t></w:r>
      <w:r><w:drawing><a:blip r:embed="rId1"/></w:drawing></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>trailing paragraph text</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`,
		RelsXML: `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`,
		Media: map[string][]byte{
			"image1.png": {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x01, 0x02},
		},
	})
}
