package config

import (
	"os"
	"strconv"
	"time"

	"doc-analysis-server/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort  string
	UploadPath  string
	MaxFileSize int64
	LogLevel    string
	LogFormat   string

	OCRAPIURL  string
	OCRAPIKey  string
	OCRTimeout time.Duration

	AIAPIKey       string
	AIBaseURL      string
	AIDefaultModel string
	AIVisionModel  string
	AITimeout      time.Duration
}

// NewConfig creates a new configuration instance with default values.
// Configuration is read once at startup and read-only afterwards.
func NewConfig() domain.Config {
	return &AppConfig{
		// Many PaaS provide the listening port via PORT; keep
		// SERVER_PORT for local/dev compatibility.
		ServerPort:  getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		UploadPath:  getEnvOrDefault("UPLOAD_PATH", "./uploads"),
		MaxFileSize: getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "console"),

		OCRAPIURL:  getEnvOrDefault("OCR_API_URL", ""),
		OCRAPIKey:  getEnvOrDefault("OCR_API_KEY", ""),
		OCRTimeout: getEnvDurationSeconds("OCR_TIMEOUT_SECONDS", 60*time.Second),

		AIAPIKey:       getEnvOrDefault("AI_API_KEY", ""),
		AIBaseURL:      getEnvOrDefault("AI_BASE_URL", ""),
		AIDefaultModel: getEnvOrDefault("AI_DEFAULT_MODEL", "gpt-4o-mini"),
		AIVisionModel:  getEnvOrDefault("AI_VISION_MODEL", "gpt-4o"),
		AITimeout:      getEnvDurationSeconds("AI_TIMEOUT_SECONDS", 60*time.Second),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetUploadPath returns the upload directory path
func (c *AppConfig) GetUploadPath() string {
	return c.UploadPath
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetLogFormat returns the logging output format
func (c *AppConfig) GetLogFormat() string {
	return c.LogFormat
}

// GetOCRAPIURL returns the external OCR endpoint
func (c *AppConfig) GetOCRAPIURL() string {
	return c.OCRAPIURL
}

// GetOCRAPIKey returns the external OCR API key
func (c *AppConfig) GetOCRAPIKey() string {
	return c.OCRAPIKey
}

// GetOCRTimeout returns the OCR request timeout
func (c *AppConfig) GetOCRTimeout() time.Duration {
	return c.OCRTimeout
}

// GetAIAPIKey returns the chat-completion API key
func (c *AppConfig) GetAIAPIKey() string {
	return c.AIAPIKey
}

// GetAIBaseURL returns the chat-completion base URL override
func (c *AppConfig) GetAIBaseURL() string {
	return c.AIBaseURL
}

// GetAIDefaultModel returns the default chat model
func (c *AppConfig) GetAIDefaultModel() string {
	return c.AIDefaultModel
}

// GetAIVisionModel returns the vision-capable model
func (c *AppConfig) GetAIVisionModel() string {
	return c.AIVisionModel
}

// GetAITimeout returns the AI request timeout
func (c *AppConfig) GetAITimeout() time.Duration {
	return c.AITimeout
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationSeconds(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
