package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"doc-analysis-server/internal/domain"
)

// mockOCRClient recognizes everything except file names listed in fail.
// Batch recognition calls it concurrently, so the counter is guarded.
type mockOCRClient struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls int
}

func (m *mockOCRClient) countCall() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

func (m *mockOCRClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockOCRClient) Recognize(ctx context.Context, imageData []byte, fileName string) (*domain.OCRResult, error) {
	m.countCall()
	if m.fail[fileName] {
		return nil, errors.New("recognition failed")
	}
	return &domain.OCRResult{FileName: fileName, Text: "recognized text", Confidence: 0.97, WordCount: 2}, nil
}

func (m *mockOCRClient) RecognizeBase64(ctx context.Context, encoded string, format string) (*domain.OCRResult, error) {
	m.countCall()
	if encoded == "bad" {
		return nil, errors.New("recognition failed")
	}
	return &domain.OCRResult{Text: "recognized text", WordCount: 2}, nil
}

func (m *mockOCRClient) Status(ctx context.Context) *domain.OCRStatus {
	return &domain.OCRStatus{Available: true, Endpoint: "http://ocr.local", Message: "configured"}
}

func newTestOCRHandler(t *testing.T, mock *mockOCRClient) *OCRHandler {
	t.Helper()
	return NewOCRHandler(mock, newTestConfig(t), testLogger{})
}

func TestRecognizeSingleImage(t *testing.T) {
	h := newTestOCRHandler(t, &mockOCRClient{})

	req := multipartRequest(t, "/ocr/recognize", nil,
		filePart{Field: "file", Name: "scan.png", Data: []byte{0x89, 0x50}})
	rec := httptest.NewRecorder()
	h.Recognize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	_, _, data := decodeEnvelope(t, rec.Body)

	var result domain.OCRResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if result.Text != "recognized text" || result.FileName != "scan.png" {
		t.Errorf("result = %+v", result)
	}
}

func TestRecognizeRejectsNonImage(t *testing.T) {
	mock := &mockOCRClient{}
	h := newTestOCRHandler(t, mock)

	req := multipartRequest(t, "/ocr/recognize", nil,
		filePart{Field: "file", Name: "report.pdf", Data: []byte("%PDF")})
	rec := httptest.NewRecorder()
	h.Recognize(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for non-image upload", rec.Code)
	}
	if mock.callCount() != 0 {
		t.Error("upstream must not be called for a rejected upload")
	}
}

func TestRecognizeBase64Validation(t *testing.T) {
	h := newTestOCRHandler(t, &mockOCRClient{})

	tests := []struct {
		body string
		want int
	}{
		{`{"image":"aGVsbG8=","format":"png"}`, http.StatusOK},
		{`{"image":""}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/ocr/recognize-base64", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.RecognizeBase64(rec, req)
		if rec.Code != tt.want {
			t.Errorf("body %q: status = %d, want %d", tt.body, rec.Code, tt.want)
		}
	}
}

func TestBatchRecognizePartialFailure(t *testing.T) {
	mock := &mockOCRClient{fail: map[string]bool{"second.png": true}}
	h := newTestOCRHandler(t, mock)

	req := multipartRequest(t, "/ocr/batch-recognize", nil,
		filePart{Field: "files", Name: "first.png", Data: []byte{0x89}},
		filePart{Field: "files", Name: "second.png", Data: []byte{0x89}},
		filePart{Field: "files", Name: "third.jpg", Data: []byte{0xFF}})
	rec := httptest.NewRecorder()
	h.BatchRecognize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	_, _, data := decodeEnvelope(t, rec.Body)

	var summary domain.BatchOCRSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if summary.Total != 3 || summary.SuccessCount != 2 || summary.ErrorCount != 1 {
		t.Fatalf("summary = %+v, want total=3 success=2 errors=1", summary)
	}

	// item order follows upload order
	if summary.Items[1].FileName != "second.png" || summary.Items[1].Success {
		t.Errorf("failed item = %+v, want second.png with success=false", summary.Items[1])
	}
	if summary.Items[1].Error == "" {
		t.Error("failed item must carry an error message")
	}
	if !summary.Items[0].Success || !summary.Items[2].Success {
		t.Errorf("items = %+v, first and third should succeed", summary.Items)
	}
}

func TestBatchRecognizeSkipsUnsupportedEntries(t *testing.T) {
	mock := &mockOCRClient{}
	h := newTestOCRHandler(t, mock)

	req := multipartRequest(t, "/ocr/batch-recognize", nil,
		filePart{Field: "files", Name: "ok.png", Data: []byte{0x89}},
		filePart{Field: "files", Name: "nope.exe", Data: []byte{0x4D}})
	rec := httptest.NewRecorder()
	h.BatchRecognize(rec, req)

	_, _, data := decodeEnvelope(t, rec.Body)
	var summary domain.BatchOCRSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if summary.SuccessCount != 1 || summary.ErrorCount != 1 {
		t.Errorf("summary = %+v, want one success and one error", summary)
	}
	if got := mock.callCount(); got != 1 {
		t.Errorf("upstream calls = %d, unsupported entries must be rejected locally", got)
	}
}

func TestBatchRecognizeRequiresFiles(t *testing.T) {
	h := newTestOCRHandler(t, &mockOCRClient{})

	req := multipartRequest(t, "/ocr/batch-recognize", map[string]string{"note": "no files"})
	rec := httptest.NewRecorder()
	h.BatchRecognize(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without files", rec.Code)
	}
}

func TestOCRStatusEndpoint(t *testing.T) {
	h := newTestOCRHandler(t, &mockOCRClient{})

	req := httptest.NewRequest(http.MethodGet, "/ocr/status", nil)
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"available":true`)) {
		t.Errorf("body = %s, want the upstream status echoed", rec.Body.String())
	}
}
