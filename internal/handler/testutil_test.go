package handler

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// testLogger is a no-op domain.Logger for tests.
type testLogger struct{}

func (testLogger) Info(msg string, fields ...interface{})             {}
func (testLogger) Error(msg string, err error, fields ...interface{}) {}
func (testLogger) Debug(msg string, fields ...interface{})            {}
func (testLogger) Warn(msg string, fields ...interface{})             {}

// testConfig implements domain.Config with a per-test upload directory.
type testConfig struct {
	uploadPath  string
	maxFileSize int64
}

func newTestConfig(t *testing.T) *testConfig {
	t.Helper()
	return &testConfig{uploadPath: t.TempDir(), maxFileSize: 50 * 1024 * 1024}
}

func (c *testConfig) GetServerPort() string         { return "0" }
func (c *testConfig) GetUploadPath() string         { return c.uploadPath }
func (c *testConfig) GetMaxFileSize() int64         { return c.maxFileSize }
func (c *testConfig) GetLogLevel() string           { return "disabled" }
func (c *testConfig) GetLogFormat() string          { return "console" }
func (c *testConfig) GetOCRAPIURL() string          { return "" }
func (c *testConfig) GetOCRAPIKey() string          { return "" }
func (c *testConfig) GetOCRTimeout() time.Duration  { return time.Second }
func (c *testConfig) GetAIAPIKey() string           { return "" }
func (c *testConfig) GetAIBaseURL() string          { return "" }
func (c *testConfig) GetAIDefaultModel() string     { return "gpt-4o-mini" }
func (c *testConfig) GetAIVisionModel() string      { return "gpt-4o" }
func (c *testConfig) GetAITimeout() time.Duration   { return time.Second }

// labeledImageDocxBytes builds an in-memory DOCX whose second paragraph
// is a label immediately followed by an inline image.
func labeledImageDocxBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>
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
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`,
		"word/media/image1.png": string([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}),
	}

	for name, data := range entries {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(data)); err != nil {
			t.Fatalf("writing zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

// filePart is one file attached to a multipart request.
type filePart struct {
	Field string
	Name  string
	Data  []byte
}

// multipartRequest builds a POST request with the given form fields and
// file parts.
func multipartRequest(t *testing.T, url string, fields map[string]string, files ...filePart) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("writing form field %s: %v", key, err)
		}
	}
	for _, fp := range files {
		part, err := mw.CreateFormFile(fp.Field, fp.Name)
		if err != nil {
			t.Fatalf("creating file part %s: %v", fp.Name, err)
		}
		if _, err := part.Write(fp.Data); err != nil {
			t.Fatalf("writing file part %s: %v", fp.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// decodeEnvelope parses a response body into the uniform envelope,
// leaving data raw for per-test decoding.
func decodeEnvelope(t *testing.T, body io.Reader) (bool, string, json.RawMessage) {
	t.Helper()

	var resp struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("decoding response envelope: %v", err)
	}
	return resp.Success, resp.Message, resp.Data
}
