package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"doc-analysis-server/internal/config"
)

// NewRouter creates a new HTTP router with all routes configured.
// Exact paths are preserved for compatibility with existing clients,
// including the legacy /openai prefix mirroring /ai.
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"doc-analysis-server"}`))
	}).Methods("GET")

	// Initialize handlers
	documentHandler := NewDocumentHandler(container.AnalysisService, container.Config, container.Logger)
	ocrHandler := NewOCRHandler(container.OCRClient, container.Config, container.Logger)
	aiHandler := NewAIHandler(container.AIClient, container.AnalysisService, container.Config, container.Logger)

	// Document analysis routes
	router.HandleFunc("/extract-images", documentHandler.ExtractImages).Methods("POST")
	router.HandleFunc("/detect-image-after-text", documentHandler.DetectImageAfterText).Methods("POST")
	router.HandleFunc("/find-text-position", documentHandler.FindTextPosition).Methods("POST")
	router.HandleFunc("/extract-document-content", documentHandler.ExtractDocumentContent).Methods("POST")
	router.HandleFunc("/images", documentHandler.ListImages).Methods("GET")

	// OCR pass-through routes
	router.HandleFunc("/ocr/recognize", ocrHandler.Recognize).Methods("POST")
	router.HandleFunc("/ocr/recognize-base64", ocrHandler.RecognizeBase64).Methods("POST")
	router.HandleFunc("/ocr/batch-recognize", ocrHandler.BatchRecognize).Methods("POST")
	router.HandleFunc("/ocr/status", ocrHandler.Status).Methods("GET")

	// AI pass-through routes; /openai mirrors /ai for older clients
	for _, prefix := range []string{"/ai", "/openai"} {
		sub := router.PathPrefix(prefix).Subrouter()
		sub.HandleFunc("/chat", aiHandler.Chat).Methods("POST")
		sub.HandleFunc("/upload-analyze", aiHandler.UploadAnalyze).Methods("POST")
		sub.HandleFunc("/analyze-file", aiHandler.AnalyzeFile).Methods("POST")
		sub.HandleFunc("/generate-summary", aiHandler.GenerateSummary).Methods("POST")
		sub.HandleFunc("/models", aiHandler.Models).Methods("GET")
		sub.HandleFunc("/status", aiHandler.Status).Methods("GET")
	}

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		MaxAge: 300,
	})

	return c.Handler(router)
}
