package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"doc-analysis-server/internal/domain"
	apperrors "doc-analysis-server/pkg/errors"
)

// ExternalOCRClient is a pure pass-through client for a third-party OCR
// HTTP endpoint. It has no recognition logic of its own: requests are
// forwarded, responses decoded, and failures surfaced immediately.
// There is no retry policy.
type ExternalOCRClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   domain.Logger
}

// NewExternalOCRClient creates a new OCR client
func NewExternalOCRClient(cfg domain.Config, logger domain.Logger) *ExternalOCRClient {
	return &ExternalOCRClient{
		endpoint: strings.TrimRight(cfg.GetOCRAPIURL(), "/"),
		apiKey:   cfg.GetOCRAPIKey(),
		client:   &http.Client{Timeout: cfg.GetOCRTimeout()},
		logger:   logger,
	}
}

type ocrRequest struct {
	Image  string `json:"image"`
	Format string `json:"format,omitempty"`
}

type ocrResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Recognize sends raw image bytes to the external service.
func (c *ExternalOCRClient) Recognize(ctx context.Context, imageData []byte, fileName string) (*domain.OCRResult, error) {
	if len(imageData) == 0 {
		return nil, apperrors.NewValidationError("image data is empty")
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	result, err := c.RecognizeBase64(ctx, base64.StdEncoding.EncodeToString(imageData), format)
	if err != nil {
		return nil, err
	}
	result.FileName = fileName
	return result, nil
}

// RecognizeBase64 sends an already base64-encoded image.
func (c *ExternalOCRClient) RecognizeBase64(ctx context.Context, encoded string, format string) (*domain.OCRResult, error) {
	if c.endpoint == "" {
		return nil, apperrors.NewExternalServiceError("OCR service is not configured", nil)
	}
	if strings.TrimSpace(encoded) == "" {
		return nil, apperrors.NewValidationError("image is required")
	}

	body, err := json.Marshal(ocrRequest{Image: encoded, Format: format})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode OCR request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/recognize", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build OCR request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("OCR request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalServiceError(
			fmt.Sprintf("OCR recognition failed: %s", apperrors.ClassifyUpstreamStatus(resp.StatusCode)), nil)
	}

	var decoded ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperrors.NewExternalServiceError("failed to decode OCR response", err)
	}

	return &domain.OCRResult{
		Text:       decoded.Text,
		Confidence: decoded.Confidence,
		WordCount:  len(strings.Fields(decoded.Text)),
	}, nil
}

// Status reports whether the external endpoint is configured and
// reachable.
func (c *ExternalOCRClient) Status(ctx context.Context) *domain.OCRStatus {
	if c.endpoint == "" {
		return &domain.OCRStatus{
			Available: false,
			Message:   "OCR_API_URL is not configured",
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/status", nil)
	if err != nil {
		return &domain.OCRStatus{Available: false, Endpoint: c.endpoint, Message: err.Error()}
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.OCRStatus{
			Available: false,
			Endpoint:  c.endpoint,
			Message:   "OCR service unreachable: " + err.Error(),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &domain.OCRStatus{
			Available: false,
			Endpoint:  c.endpoint,
			Message:   apperrors.ClassifyUpstreamStatus(resp.StatusCode),
		}
	}

	return &domain.OCRStatus{
		Available: true,
		Endpoint:  c.endpoint,
		Message:   "OCR service reachable",
	}
}
