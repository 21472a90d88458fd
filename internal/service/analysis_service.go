// Package service implements document extraction and the text-image
// adjacency detection engine.
package service

import (
	"path/filepath"
	"strings"

	"doc-analysis-server/internal/domain"
)

// AnalysisService runs the document analysis operations on top of a
// content extractor. All state is request-scoped; the service itself is
// safe for concurrent use.
type AnalysisService struct {
	extractor domain.ContentExtractor
	logger    domain.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(extractor domain.ContentExtractor, logger domain.Logger) *AnalysisService {
	return &AnalysisService{
		extractor: extractor,
		logger:    logger,
	}
}

// DetectImageAfterText runs the geometric path: extract the geometric
// model and look for an image in the band below the first text block
// matching target.
func (s *AnalysisService) DetectImageAfterText(path, target string, opts domain.DetectImageOptions) (*domain.AdjacencyVerdict, error) {
	if strings.TrimSpace(target) == "" {
		return nil, domain.ErrEmptyTarget
	}

	content, err := s.extractor.Extract(path)
	if err != nil {
		return nil, err
	}

	verdict := DetectImageAfterText(content, target, opts)
	s.logger.Info("image-after-text detection finished",
		"target", target, "has_image_after", verdict.HasImageAfter, "confidence", verdict.Confidence)
	return verdict, nil
}

// FindTextPositions runs a document-wide search over the geometric
// model and reports every matching block.
func (s *AnalysisService) FindTextPositions(path, query string, opts domain.SearchOptions) (*domain.SearchReport, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	content, err := s.extractor.Extract(path)
	if err != nil {
		return nil, err
	}

	matches := FindTextPositions(content, query, opts)
	if matches == nil {
		matches = []domain.MatchResult{}
	}

	return &domain.SearchReport{
		SearchText:   query,
		TotalMatches: len(matches),
		Matches:      matches,
		DocumentInfo: Info(filepath.Base(path), content),
	}, nil
}

// ExtractDocumentContent runs the markup path: convert the document to
// HTML, normalize it to plain text with image placeholders, and check
// each comma-separated target for an immediately following image.
func (s *AnalysisService) ExtractDocumentContent(path, targetList string, opts domain.ConvertOptions) (*domain.ContentReport, error) {
	htmlText, messages, err := s.extractor.ConvertToHTML(path, opts)
	if err != nil {
		return nil, err
	}

	cleaned := HTMLToPlainText(htmlText)
	results := CheckLabelsHaveImages(cleaned, targetList)
	if results == nil {
		results = []string{}
	}

	return &domain.ContentReport{
		CleanedHTMLText: cleaned,
		Result:          results,
		TargetText:      targetList,
		OriginalFile:    filepath.Base(path),
		Messages:        messages,
	}, nil
}

// ExtractImages returns the embedded images of the document.
func (s *AnalysisService) ExtractImages(path string) ([]domain.ExtractedImage, error) {
	images, err := s.extractor.ExtractImages(path)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []domain.ExtractedImage{}
	}
	return images, nil
}

// DocumentText converts a document to its normalized plain text, used
// by the AI file-analysis endpoint.
func (s *AnalysisService) DocumentText(path string) (string, error) {
	htmlText, _, err := s.extractor.ConvertToHTML(path, domain.DefaultConvertOptions())
	if err != nil {
		return "", err
	}
	return HTMLToPlainText(htmlText), nil
}
