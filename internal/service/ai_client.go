package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"doc-analysis-server/internal/domain"
	apperrors "doc-analysis-server/pkg/errors"
)

// OpenAIClient is a pass-through client for OpenAI-compatible
// chat-completion APIs. No retries; upstream failures surface
// immediately with a categorized message.
type OpenAIClient struct {
	client       *openai.Client
	defaultModel string
	visionModel  string
	baseURL      string
	configured   bool
	logger       domain.Logger
}

// NewOpenAIClient creates a new AI client
func NewOpenAIClient(cfg domain.Config, logger domain.Logger) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.GetAIAPIKey())
	if base := cfg.GetAIBaseURL(); base != "" {
		clientConfig.BaseURL = base
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.GetAITimeout()}

	return &OpenAIClient{
		client:       openai.NewClientWithConfig(clientConfig),
		defaultModel: cfg.GetAIDefaultModel(),
		visionModel:  cfg.GetAIVisionModel(),
		baseURL:      clientConfig.BaseURL,
		configured:   cfg.GetAIAPIKey() != "",
		logger:       logger,
	}
}

// Chat forwards a chat-completion request.
func (c *OpenAIClient) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if !c.configured {
		return nil, apperrors.NewExternalServiceError("AI service is not configured", nil)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	if strings.TrimSpace(req.Prompt) != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Prompt,
		})
	}
	if len(messages) == 0 {
		return nil, apperrors.NewValidationError("prompt or messages is required")
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
	if req.Temperature != nil {
		chatReq.Temperature = *req.Temperature
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, c.wrapUpstreamError("chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.NewExternalServiceError("empty response from model", nil)
	}

	return &domain.ChatResponse{
		Model:      resp.Model,
		Content:    resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// AnalyzeImage sends an image as a base64 data URI to a vision-capable
// model together with the given prompt.
func (c *OpenAIClient) AnalyzeImage(ctx context.Context, imageData []byte, contentType, prompt, model string) (*domain.ChatResponse, error) {
	if !c.configured {
		return nil, apperrors.NewExternalServiceError("AI service is not configured", nil)
	}
	if len(imageData) == 0 {
		return nil, apperrors.NewValidationError("image data is empty")
	}
	if prompt == "" {
		prompt = "Describe the content of this image in detail."
	}
	if model == "" {
		model = c.visionModel
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(imageData))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: dataURI},
				},
			},
		}},
	})
	if err != nil {
		return nil, c.wrapUpstreamError("image analysis failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.NewExternalServiceError("empty response from model", nil)
	}

	return &domain.ChatResponse{
		Model:      resp.Model,
		Content:    resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// GenerateSummary asks the default model for a summary of text.
func (c *OpenAIClient) GenerateSummary(ctx context.Context, text string, maxLength int) (*domain.ChatResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("text is required")
	}
	if maxLength <= 0 {
		maxLength = 200
	}

	prompt := fmt.Sprintf("Summarize the following text in at most %d words:\n\n%s", maxLength, text)
	return c.Chat(ctx, domain.ChatRequest{Prompt: prompt})
}

// ListModels returns the models available upstream.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	if !c.configured {
		return nil, apperrors.NewExternalServiceError("AI service is not configured", nil)
	}

	list, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, c.wrapUpstreamError("failed to list models", err)
	}

	models := make([]domain.ModelInfo, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, domain.ModelInfo{ID: m.ID, OwnedBy: m.OwnedBy})
	}
	return models, nil
}

// Status reports whether the client is configured.
func (c *OpenAIClient) Status(ctx context.Context) *domain.AIStatus {
	if !c.configured {
		return &domain.AIStatus{
			Available: false,
			Message:   "AI_API_KEY is not configured",
		}
	}
	return &domain.AIStatus{
		Available:    true,
		BaseURL:      c.baseURL,
		DefaultModel: c.defaultModel,
		Message:      "AI service configured",
	}
}

// wrapUpstreamError categorizes go-openai errors by upstream status.
func (c *OpenAIClient) wrapUpstreamError(message string, err error) error {
	if apiErr, ok := err.(*openai.APIError); ok {
		return apperrors.NewExternalServiceError(
			fmt.Sprintf("%s: %s", message, apperrors.ClassifyUpstreamStatus(apiErr.HTTPStatusCode)), err)
	}
	return apperrors.NewExternalServiceError(message, err)
}
