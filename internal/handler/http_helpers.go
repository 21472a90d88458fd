// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"doc-analysis-server/internal/domain"
	apperrors "doc-analysis-server/pkg/errors"
)

// Allowed upload extensions, enumerated once at startup.
var (
	documentExtensions = map[string]bool{
		".pdf":  true,
		".docx": true,
		".doc":  true,
	}
	imageExtensions = map[string]bool{
		".png":  true,
		".jpg":  true,
		".jpeg": true,
		".gif":  true,
		".bmp":  true,
		".tif":  true,
		".tiff": true,
		".webp": true,
	}
)

// envelope is the uniform response shape of every endpoint.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// writeSuccess writes a success envelope
func writeSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Message: message, Data: data})
}

// writeError writes an error envelope
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: message})
}

// writeFailure maps an application error to its HTTP status. Validation
// messages are echoed verbatim; everything else keeps its descriptive
// message from the error taxonomy.
func writeFailure(w http.ResponseWriter, err error) {
	writeError(w, apperrors.GetStatusCode(err), err.Error())
}

// saveUpload validates the multipart file under the given field and
// stores it in the upload directory with a random name. The returned
// cleanup removes the temp file best-effort (errors logged, not thrown)
// and must run on every exit path before the response is sent.
func saveUpload(r *http.Request, field string, cfg domain.Config, allowed map[string]bool, logger domain.Logger) (string, string, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", "", nil, apperrors.NewValidationError("file is required")
	}
	defer file.Close()

	// Sanitize filename (strip any path components)
	originalName := strings.TrimSpace(filepath.Base(header.Filename))
	if originalName == "" || originalName == "." {
		originalName = "upload"
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" || !allowed[ext] {
		return "", "", nil, apperrors.NewUnsupportedFormatError(
			"unsupported file type " + ext + ", allowed: " + extList(allowed))
	}

	if header.Size > cfg.GetMaxFileSize() {
		return "", "", nil, apperrors.NewValidationError("file too large")
	}

	if err := os.MkdirAll(cfg.GetUploadPath(), 0o755); err != nil {
		return "", "", nil, apperrors.NewInternalError("failed to prepare upload directory", err)
	}

	path := filepath.Join(cfg.GetUploadPath(), uuid.New().String()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", "", nil, apperrors.NewInternalError("failed to store uploaded file", err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return "", "", nil, apperrors.NewInternalError("failed to store uploaded file", err)
	}
	dst.Close()

	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove uploaded temp file", "path", path, "error", err)
		}
	}
	return path, originalName, cleanup, nil
}

// readUploadBytes reads a multipart file fully into memory, for
// endpoints that forward bytes instead of paths.
func readUploadBytes(file io.Reader, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read uploaded file", err)
	}
	if int64(len(data)) > maxSize {
		return nil, apperrors.NewValidationError("file too large")
	}
	return data, nil
}

func extList(allowed map[string]bool) string {
	exts := make([]string, 0, len(allowed))
	for ext := range allowed {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

// Form field parsing helpers. Absent or malformed values keep the
// default.

func formFloat(r *http.Request, field string, def float64) float64 {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return def
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return def
}

func formInt(r *http.Request, field string, def int) int {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return def
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	return def
}

func formBool(r *http.Request, field string, def bool) bool {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return def
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		return v
	}
	return def
}

func contentTypeForImage(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
