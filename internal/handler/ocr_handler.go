package handler

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"doc-analysis-server/internal/domain"
)

// batchWorkers caps concurrent recognition calls in a batch.
const batchWorkers = 4

// OCRHandler forwards recognition requests to the external OCR service
type OCRHandler struct {
	ocr    domain.OCRClient
	config domain.Config
	logger domain.Logger
}

// NewOCRHandler creates a new OCR handler
func NewOCRHandler(ocr domain.OCRClient, config domain.Config, logger domain.Logger) *OCRHandler {
	return &OCRHandler{
		ocr:    ocr,
		config: config,
		logger: logger,
	}
}

// Recognize handles POST /ocr/recognize with a multipart image file.
func (h *OCRHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if !imageExtensions[strings.ToLower(filepath.Ext(header.Filename))] {
		writeError(w, http.StatusBadRequest, "unsupported image type, allowed: "+extList(imageExtensions))
		return
	}

	data, err := readUploadBytes(file, h.config.GetMaxFileSize())
	if err != nil {
		writeFailure(w, err)
		return
	}

	result, err := h.ocr.Recognize(r.Context(), data, filepath.Base(header.Filename))
	if err != nil {
		h.logger.Error("OCR recognition failed", err, "file", header.Filename)
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "recognition completed", result)
}

type recognizeBase64Request struct {
	Image  string `json:"image"`
	Format string `json:"format,omitempty"`
}

// RecognizeBase64 handles POST /ocr/recognize-base64 with a JSON body.
func (h *OCRHandler) RecognizeBase64(w http.ResponseWriter, r *http.Request) {
	var req recognizeBase64Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}

	result, err := h.ocr.RecognizeBase64(r.Context(), req.Image, req.Format)
	if err != nil {
		h.logger.Error("OCR recognition failed", err)
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "recognition completed", result)
}

// BatchRecognize handles POST /ocr/batch-recognize with multiple files
// under the "files" field. Images are recognized concurrently with
// bounded workers; one failure does not abort the batch, and the
// summary reports per-item success and failure counts.
func (h *OCRHandler) BatchRecognize(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.config.GetMaxFileSize()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		writeError(w, http.StatusBadRequest, "at least one file is required")
		return
	}

	headers := r.MultipartForm.File["files"]
	items := make([]domain.BatchOCRItem, len(headers))

	sem := make(chan struct{}, batchWorkers)
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(r.Context())

	for i, header := range headers {
		i, header := i, header
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return ctx.Err()
			}

			item := h.recognizeOne(r, header)
			mu.Lock()
			items[i] = item
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		writeError(w, http.StatusInternalServerError, "batch recognition aborted: "+err.Error())
		return
	}

	summary := domain.BatchOCRSummary{Total: len(items), Items: items}
	for _, item := range items {
		if item.Success {
			summary.SuccessCount++
		} else {
			summary.ErrorCount++
		}
	}

	h.logger.Info("batch OCR finished",
		"total", summary.Total, "success", summary.SuccessCount, "errors", summary.ErrorCount)
	writeSuccess(w, http.StatusOK, "batch recognition completed", summary)
}

// recognizeOne processes a single batch entry; failures are captured in
// the item, never propagated.
func (h *OCRHandler) recognizeOne(r *http.Request, header *multipart.FileHeader) domain.BatchOCRItem {
	name := filepath.Base(header.Filename)
	item := domain.BatchOCRItem{FileName: name}

	if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
		item.Error = "unsupported image type"
		return item
	}

	file, err := header.Open()
	if err != nil {
		item.Error = "failed to open uploaded file"
		return item
	}
	defer file.Close()

	data, err := readUploadBytes(file, h.config.GetMaxFileSize())
	if err != nil {
		item.Error = err.Error()
		return item
	}

	result, err := h.ocr.Recognize(r.Context(), data, name)
	if err != nil {
		item.Error = err.Error()
		return item
	}

	item.Success = true
	item.Text = result.Text
	return item
}

// Status handles GET /ocr/status.
func (h *OCRHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "ocr status", h.ocr.Status(r.Context()))
}
