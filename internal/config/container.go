package config

import (
	"doc-analysis-server/internal/domain"
	"doc-analysis-server/internal/service"
	"doc-analysis-server/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config          domain.Config
	Logger          domain.Logger
	Extractor       domain.ContentExtractor
	AnalysisService *service.AnalysisService
	OCRClient       domain.OCRClient
	AIClient        domain.AIClient
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	cfg := NewConfig()
	appLogger := logger.NewLogger(cfg.GetLogLevel(), cfg.GetLogFormat())

	extractor := service.NewDocumentExtractor(appLogger)

	return &Container{
		Config:          cfg,
		Logger:          appLogger,
		Extractor:       extractor,
		AnalysisService: service.NewAnalysisService(extractor, appLogger),
		OCRClient:       service.NewExternalOCRClient(cfg, appLogger),
		AIClient:        service.NewOpenAIClient(cfg, appLogger),
	}
}
