package handler

import (
	"net/http"
	"strings"

	"doc-analysis-server/internal/domain"
	"doc-analysis-server/internal/service"
)

// DocumentHandler handles document analysis HTTP requests
type DocumentHandler struct {
	analysis *service.AnalysisService
	config   domain.Config
	logger   domain.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(analysis *service.AnalysisService, config domain.Config, logger domain.Logger) *DocumentHandler {
	return &DocumentHandler{
		analysis: analysis,
		config:   config,
		logger:   logger,
	}
}

// ExtractImages handles POST /extract-images: returns the embedded
// images of the uploaded document.
func (h *DocumentHandler) ExtractImages(w http.ResponseWriter, r *http.Request) {
	path, originalName, cleanup, err := saveUpload(r, "file", h.config, documentExtensions, h.logger)
	if err != nil {
		writeFailure(w, err)
		return
	}
	defer cleanup()

	images, err := h.analysis.ExtractImages(path)
	if err != nil {
		h.logger.Error("image extraction failed", err, "file", originalName)
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "images extracted", map[string]interface{}{
		"fileName":    originalName,
		"totalImages": len(images),
		"images":      images,
	})
}

// DetectImageAfterText handles POST /detect-image-after-text: the
// geometric detection path.
func (h *DocumentHandler) DetectImageAfterText(w http.ResponseWriter, r *http.Request) {
	path, originalName, cleanup, err := saveUpload(r, "file", h.config, documentExtensions, h.logger)
	if err != nil {
		writeFailure(w, err)
		return
	}
	defer cleanup()

	target := strings.TrimSpace(r.FormValue("targetText"))
	if target == "" {
		writeError(w, http.StatusBadRequest, "targetText is required")
		return
	}

	opts := domain.DefaultDetectImageOptions()
	opts.SearchRadius = formFloat(r, "searchRadius", opts.SearchRadius)
	opts.Tolerance = formFloat(r, "tolerance", opts.Tolerance)
	opts.LineHeight = formFloat(r, "lineHeight", opts.LineHeight)
	opts.FuzzyMatch = formBool(r, "fuzzyMatch", opts.FuzzyMatch)

	verdict, err := h.analysis.DetectImageAfterText(path, target, opts)
	if err != nil {
		h.logger.Error("image-after-text detection failed", err, "file", originalName, "target", target)
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "detection completed", verdict)
}

// FindTextPosition handles POST /find-text-position: document-wide
// text search over the geometric model.
func (h *DocumentHandler) FindTextPosition(w http.ResponseWriter, r *http.Request) {
	path, originalName, cleanup, err := saveUpload(r, "file", h.config, documentExtensions, h.logger)
	if err != nil {
		writeFailure(w, err)
		return
	}
	defer cleanup()

	query := strings.TrimSpace(r.FormValue("searchText"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "searchText is required")
		return
	}

	opts := domain.DefaultSearchOptions()
	opts.CaseSensitive = formBool(r, "caseSensitive", opts.CaseSensitive)
	opts.FuzzyMatch = formBool(r, "fuzzyMatch", opts.FuzzyMatch)
	opts.Tolerance = formFloat(r, "tolerance", opts.Tolerance)
	opts.MaxResults = formInt(r, "maxResults", opts.MaxResults)
	opts.ContextLength = formInt(r, "contextLength", opts.ContextLength)

	report, err := h.analysis.FindTextPositions(path, query, opts)
	if err != nil {
		h.logger.Error("text position search failed", err, "file", originalName, "query", query)
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "search completed", report)
}

// ExtractDocumentContent handles POST /extract-document-content: the
// markup path. targetText carries a comma-separated list of required
// labels; each gets '' when an image immediately follows it in the
// normalized text, 'missing: X' otherwise.
func (h *DocumentHandler) ExtractDocumentContent(w http.ResponseWriter, r *http.Request) {
	path, originalName, cleanup, err := saveUpload(r, "file", h.config, documentExtensions, h.logger)
	if err != nil {
		writeFailure(w, err)
		return
	}
	defer cleanup()

	targetList := strings.TrimSpace(r.FormValue("targetText"))
	if targetList == "" {
		targetList = strings.TrimSpace(r.URL.Query().Get("targetText"))
	}

	opts := domain.DefaultConvertOptions()
	opts.IncludeImages = formBool(r, "includeImages", opts.IncludeImages)
	opts.IgnoreEmptyParagraphs = formBool(r, "ignoreEmptyParagraphs", opts.IgnoreEmptyParagraphs)
	opts.IDPrefix = strings.TrimSpace(r.FormValue("idPrefix"))

	report, err := h.analysis.ExtractDocumentContent(path, targetList, opts)
	if err != nil {
		h.logger.Error("content extraction failed", err, "file", originalName)
		writeFailure(w, err)
		return
	}
	report.OriginalFile = originalName

	writeSuccess(w, http.StatusOK, "content extracted", report)
}

// ListImages handles GET /images. Extracted images are request-scoped
// and never persisted, so the listing is always empty; the route is
// kept for client compatibility.
func (h *DocumentHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "no stored images", map[string]interface{}{
		"images": []interface{}{},
	})
}
