package domain

import (
	"context"
	"time"
)

// Logger defines the logging interface used across the application.
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config exposes the read-only process configuration.
type Config interface {
	GetServerPort() string
	GetUploadPath() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetLogFormat() string

	GetOCRAPIURL() string
	GetOCRAPIKey() string
	GetOCRTimeout() time.Duration

	GetAIAPIKey() string
	GetAIBaseURL() string
	GetAIDefaultModel() string
	GetAIVisionModel() string
	GetAITimeout() time.Duration
}

// ContentExtractor converts a source document into one of the two
// intermediate models. Both paths share the same per-format readers.
type ContentExtractor interface {
	// Extract builds the geometric model (text blocks + image records).
	Extract(path string) (*DocumentContent, error)
	// ConvertToHTML builds the markup model: a single HTML string plus
	// normalized conversion diagnostics.
	ConvertToHTML(path string, opts ConvertOptions) (string, []ConversionMessage, error)
	// ExtractImages pulls embedded images out of the document.
	ExtractImages(path string) ([]ExtractedImage, error)
}

// OCRClient is a pass-through client for an external OCR HTTP service.
type OCRClient interface {
	Recognize(ctx context.Context, imageData []byte, fileName string) (*OCRResult, error)
	RecognizeBase64(ctx context.Context, encoded string, format string) (*OCRResult, error)
	Status(ctx context.Context) *OCRStatus
}

// AIClient is a pass-through client for external chat-completion APIs.
type AIClient interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	AnalyzeImage(ctx context.Context, imageData []byte, contentType, prompt, model string) (*ChatResponse, error)
	GenerateSummary(ctx context.Context, text string, maxLength int) (*ChatResponse, error)
	ListModels(ctx context.Context) ([]ModelInfo, error)
	Status(ctx context.Context) *AIStatus
}
