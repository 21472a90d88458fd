package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"doc-analysis-server/internal/domain"
	apperrors "doc-analysis-server/pkg/errors"
)

// Layout constants for the estimated geometric model. These are
// heuristic layout units, not calibrated PDF points.
const (
	pageMargin       = 50.0
	docxLeftMargin   = 72.0
	docxBlockWidth   = 450.0
	docxLineHeight   = 20.0
	docxLinesPerPage = 40
	docxImageY       = 400.0
	docxImageWidth   = 200.0
	docxImageHeight  = 150.0
	docxImageXStep   = 10.0

	// fallback page size when the PDF page bounds cannot be read
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// DocumentExtractor implements domain.ContentExtractor. Both the
// geometric and the markup paths dispatch through the same per-format
// readers.
type DocumentExtractor struct {
	logger domain.Logger
}

// NewDocumentExtractor creates a new document extractor
func NewDocumentExtractor(logger domain.Logger) *DocumentExtractor {
	return &DocumentExtractor{logger: logger}
}

// documentFormat validates the file extension and existence. Order
// matters for callers: unsupported extensions are rejected before the
// disk is touched.
func documentFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf", ".docx", ".doc":
	default:
		return "", apperrors.NewUnsupportedFormatError(
			fmt.Sprintf("unsupported document format %q, allowed: .pdf, .docx, .doc", ext))
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.NewNotFoundError("document file not found")
		}
		return "", apperrors.NewInternalError("failed to stat document file", err)
	}

	return strings.TrimPrefix(ext, "."), nil
}

// Extract builds the geometric model for the document. PDF positions
// and text are synthesized (see extractPDF); callers must not treat
// them as ground truth.
func (e *DocumentExtractor) Extract(path string) (*domain.DocumentContent, error) {
	format, err := documentFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case "pdf":
		return e.extractPDF(path)
	case "docx":
		return e.extractDocx(path)
	default:
		return e.extractLegacyDoc(path)
	}
}

// extractPDF enumerates pages and emits one placeholder text block per
// page spanning the page minus a fixed margin. Real text extraction is
// not performed on this path; a synthetic image record is emitted on
// every other page, sized to a fixed fraction of the page. The result
// is flagged Approximate.
func (e *DocumentExtractor) extractPDF(path string) (*domain.DocumentContent, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, apperrors.NewExtractionError("pdf extraction failed", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount < 1 {
		pageCount = 1
	}

	content := &domain.DocumentContent{
		PageCount:   pageCount,
		Approximate: true,
	}

	for i := 0; i < pageCount; i++ {
		pageWidth, pageHeight := defaultPageWidth, defaultPageHeight
		if bound, err := doc.Bound(i); err == nil && bound.Dx() > 0 && bound.Dy() > 0 {
			pageWidth = float64(bound.Dx())
			pageHeight = float64(bound.Dy())
		}

		page := i + 1
		content.TextBlocks = append(content.TextBlocks, domain.TextBlock{
			Page: page,
			Text: fmt.Sprintf("Page %d text content (approximate)", page),
			Position: domain.Rect{
				X:      pageMargin,
				Y:      pageMargin,
				Width:  pageWidth - 2*pageMargin,
				Height: pageHeight - 2*pageMargin,
			},
		})

		// index parity heuristic: assume an image on every other page
		if i%2 == 0 {
			content.ImagePositions = append(content.ImagePositions, domain.ImagePosition{
				Page: page,
				Position: domain.Rect{
					X:      pageWidth * 0.3,
					Y:      pageHeight * 0.5,
					Width:  pageWidth * 0.4,
					Height: pageHeight * 0.25,
				},
				Kind:  "pdf-page-image",
				Index: len(content.ImagePositions),
			})
		}
	}

	e.logger.Debug("extracted pdf geometric model",
		"pages", pageCount, "blocks", len(content.TextBlocks), "images", len(content.ImagePositions))
	return content, nil
}

// extractDocx builds text blocks from the document's paragraphs, one
// block per non-empty line, with y positions estimated from a fixed
// line height, and one image record per embedded media entry. When
// paragraph extraction fails the raw XML is tag-stripped into a single
// block instead of failing the request.
func (e *DocumentExtractor) extractDocx(path string) (*domain.DocumentContent, error) {
	doc, err := openDocx(path)
	if err != nil {
		return nil, apperrors.NewExtractionError("word extraction failed", err)
	}

	var lines []string
	if doc.ParseErr != nil {
		e.logger.Warn("docx paragraph extraction failed, falling back to raw XML strip",
			"error", doc.ParseErr)
		if text := stripDocumentXML(doc.RawXML); text != "" {
			lines = []string{text}
		}
	} else {
		for _, p := range doc.Paragraphs {
			text := strings.TrimSpace(p.Text())
			if text == "" {
				continue
			}
			lines = append(lines, text)
		}
	}

	pageCount := (len(lines)-1)/docxLinesPerPage + 1
	if pageCount < 1 {
		pageCount = 1
	}

	content := &domain.DocumentContent{PageCount: pageCount}

	for i, line := range lines {
		content.TextBlocks = append(content.TextBlocks, domain.TextBlock{
			Page: i/docxLinesPerPage + 1,
			Text: line,
			Position: domain.Rect{
				X:      docxLeftMargin,
				Y:      docxLeftMargin + float64(i%docxLinesPerPage)*docxLineHeight,
				Width:  docxBlockWidth,
				Height: docxLineHeight,
			},
		})
	}

	for i := range doc.Media {
		content.ImagePositions = append(content.ImagePositions, domain.ImagePosition{
			Page: 1,
			Position: domain.Rect{
				X:      docxLeftMargin + float64(i)*docxImageXStep,
				Y:      docxImageY,
				Width:  docxImageWidth,
				Height: docxImageHeight,
			},
			Kind:  "docx-media",
			Index: i,
		})
	}

	e.logger.Debug("extracted docx geometric model",
		"blocks", len(content.TextBlocks), "images", len(content.ImagePositions))
	return content, nil
}

// extractLegacyDoc emits a single placeholder block: the legacy binary
// .doc format has no structured extraction support.
func (e *DocumentExtractor) extractLegacyDoc(path string) (*domain.DocumentContent, error) {
	return &domain.DocumentContent{
		TextBlocks: []domain.TextBlock{{
			Page: 1,
			Text: "Legacy .doc format: structured extraction is not supported for this file",
			Position: domain.Rect{
				X:      pageMargin,
				Y:      pageMargin,
				Width:  defaultPageWidth - 2*pageMargin,
				Height: docxLineHeight,
			},
		}},
		PageCount:   1,
		Approximate: true,
	}, nil
}

// Info summarizes an extracted document for API responses.
func Info(fileName string, content *domain.DocumentContent) domain.DocumentInfo {
	info := domain.DocumentInfo{
		FileName: fileName,
		Format:   strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), "."),
	}
	if content != nil {
		info.PageCount = content.PageCount
		info.TextBlocks = len(content.TextBlocks)
		info.Images = len(content.ImagePositions)
		info.Approximate = content.Approximate
	}
	return info
}
