package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"doc-analysis-server/internal/domain"
	"doc-analysis-server/internal/service"
)

// AIHandler forwards analysis requests to the external chat-completion
// API.
type AIHandler struct {
	ai       domain.AIClient
	analysis *service.AnalysisService
	config   domain.Config
	logger   domain.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(ai domain.AIClient, analysis *service.AnalysisService, config domain.Config, logger domain.Logger) *AIHandler {
	return &AIHandler{
		ai:       ai,
		analysis: analysis,
		config:   config,
		logger:   logger,
	}
}

// Chat handles POST /ai/chat with a JSON chat request.
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" && len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "prompt or messages is required")
		return
	}

	resp, err := h.ai.Chat(r.Context(), req)
	if err != nil {
		h.logger.Error("AI chat failed", err)
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "chat completed", resp)
}

// UploadAnalyze handles POST /ai/upload-analyze: an uploaded image is
// sent to a vision-capable model with an optional prompt.
func (h *AIHandler) UploadAnalyze(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
		writeError(w, http.StatusBadRequest, "unsupported image type, allowed: "+extList(imageExtensions))
		return
	}

	data, err := readUploadBytes(file, h.config.GetMaxFileSize())
	if err != nil {
		writeFailure(w, err)
		return
	}

	resp, err := h.ai.AnalyzeImage(r.Context(), data, contentTypeForImage(name),
		r.FormValue("prompt"), r.FormValue("model"))
	if err != nil {
		h.logger.Error("AI image analysis failed", err, "file", name)
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "analysis completed", resp)
}

// AnalyzeFile handles POST /ai/analyze-file: the uploaded document is
// converted to normalized text and fed to the chat model with an
// analysis prompt.
func (h *AIHandler) AnalyzeFile(w http.ResponseWriter, r *http.Request) {
	path, originalName, cleanup, err := saveUpload(r, "file", h.config, documentExtensions, h.logger)
	if err != nil {
		writeFailure(w, err)
		return
	}
	defer cleanup()

	text, err := h.analysis.DocumentText(path)
	if err != nil {
		h.logger.Error("document text extraction failed", err, "file", originalName)
		writeFailure(w, err)
		return
	}

	prompt := strings.TrimSpace(r.FormValue("prompt"))
	if prompt == "" {
		prompt = "Analyze the following document content and describe its purpose, structure and key points."
	}

	resp, err := h.ai.Chat(r.Context(), domain.ChatRequest{
		Prompt: prompt + "\n\n" + text,
		Model:  r.FormValue("model"),
	})
	if err != nil {
		h.logger.Error("AI file analysis failed", err, "file", originalName)
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "analysis completed", map[string]interface{}{
		"fileName": originalName,
		"analysis": resp,
	})
}

type summaryRequest struct {
	Text      string `json:"text"`
	MaxLength int    `json:"maxLength,omitempty"`
}

// GenerateSummary handles POST /ai/generate-summary.
func (h *AIHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	resp, err := h.ai.GenerateSummary(r.Context(), req.Text, req.MaxLength)
	if err != nil {
		h.logger.Error("AI summary failed", err)
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "summary generated", resp)
}

// Models handles GET /ai/models.
func (h *AIHandler) Models(w http.ResponseWriter, r *http.Request) {
	models, err := h.ai.ListModels(r.Context())
	if err != nil {
		h.logger.Error("listing AI models failed", err)
		writeFailure(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "models listed", map[string]interface{}{"models": models})
}

// Status handles GET /ai/status.
func (h *AIHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "ai status", h.ai.Status(r.Context()))
}
