package service

import (
	"encoding/base64"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz"

	"doc-analysis-server/internal/domain"
	apperrors "doc-analysis-server/pkg/errors"
)

var listMarkerPattern = regexp.MustCompile(`^(\d+[.)]\s+|[-•*]\s+)`)

// ConvertToHTML builds the markup model: a single HTML string for the
// document plus normalized conversion diagnostics. Word documents are
// converted from their native paragraph/run structure; PDFs from their
// text layer with heuristic tag wrapping.
func (e *DocumentExtractor) ConvertToHTML(path string, opts domain.ConvertOptions) (string, []domain.ConversionMessage, error) {
	format, err := documentFormat(path)
	if err != nil {
		return "", nil, err
	}

	switch format {
	case "pdf":
		return e.pdfToHTML(path)
	case "docx":
		return e.docxToHTML(path, opts)
	default:
		return "<p>Legacy .doc format: conversion to HTML is not supported for this file</p>",
			[]domain.ConversionMessage{{
				Kind:    domain.MessageWarning,
				Message: "legacy .doc format has no structured conversion support",
			}}, nil
	}
}

// docxToHTML renders paragraphs and runs as HTML. Heading styles map to
// <h1>..<h6>, bold runs to <strong>, and embedded images to <img> tags
// (inline base64 data URIs when opts.IncludeImages is set). A paragraph
// parsing failure degrades to a single tag-stripped paragraph rather
// than failing the request.
func (e *DocumentExtractor) docxToHTML(path string, opts domain.ConvertOptions) (string, []domain.ConversionMessage, error) {
	doc, err := openDocx(path)
	if err != nil {
		return "", nil, apperrors.NewExtractionError("word extraction failed", err)
	}

	var messages []domain.ConversionMessage

	if doc.ParseErr != nil {
		messages = append(messages, domain.ConversionMessage{
			Kind:    domain.MessageWarning,
			Message: fmt.Sprintf("paragraph extraction failed, fell back to raw XML text: %v", doc.ParseErr),
		})
		text := stripDocumentXML(doc.RawXML)
		return "<p>" + html.EscapeString(text) + "</p>", messages, nil
	}

	var sb strings.Builder
	emitted := 0
	for _, p := range doc.Paragraphs {
		text := strings.TrimSpace(p.Text())
		if opts.IgnoreEmptyParagraphs && text == "" && !p.HasImage() {
			continue
		}

		var inner strings.Builder
		for _, run := range p.Runs {
			if run.Text != "" {
				if run.Bold {
					inner.WriteString("<strong>" + html.EscapeString(run.Text) + "</strong>")
				} else {
					inner.WriteString(html.EscapeString(run.Text))
				}
			}
			for _, relID := range run.ImageRels {
				src := ""
				if opts.IncludeImages {
					media, ok := doc.MediaByRel(relID)
					if !ok {
						messages = append(messages, domain.ConversionMessage{
							Kind:    domain.MessageWarning,
							Message: fmt.Sprintf("image relationship %s has no media entry", relID),
						})
					} else {
						src = dataURI(media)
					}
				}
				inner.WriteString(fmt.Sprintf(`<img src="%s" alt="embedded image"/>`, src))
			}
		}

		tag := "p"
		if level := headingLevel(p.StyleID); level > 0 {
			tag = fmt.Sprintf("h%d", level)
		}

		idAttr := ""
		if opts.IDPrefix != "" {
			idAttr = fmt.Sprintf(` id="%s-%d"`, html.EscapeString(opts.IDPrefix), emitted)
		}

		sb.WriteString(fmt.Sprintf("<%s%s>%s</%s>\n", tag, idAttr, inner.String(), tag))
		emitted++
	}

	return sb.String(), messages, nil
}

// headingLevel maps a paragraph style ID to a heading level, 0 for
// body paragraphs. Clamped to h6.
func headingLevel(styleID string) int {
	lower := strings.ToLower(styleID)
	if lower == "title" {
		return 1
	}
	if !strings.HasPrefix(lower, "heading") {
		return 0
	}
	level := 0
	fmt.Sscanf(strings.TrimPrefix(lower, "heading"), "%d", &level)
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return level
}

func dataURI(media docxMediaEntry) string {
	return fmt.Sprintf("data:%s;base64,%s",
		mediaContentType(media.Name),
		base64.StdEncoding.EncodeToString(media.Data))
}

func mediaContentType(name string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "svg":
		return "image/svg+xml"
	case "emf", "wmf":
		return "image/x-emf"
	default:
		return "application/octet-stream"
	}
}

// pdfToHTML extracts the text layer and wraps lines heuristically into
// heading, list and paragraph tags. When the text layer yields nothing
// (scanned content, password protection, corruption) a diagnostic block
// is emitted instead of failing.
func (e *DocumentExtractor) pdfToHTML(path string) (string, []domain.ConversionMessage, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", nil, apperrors.NewExtractionError("pdf extraction failed", err)
	}
	defer doc.Close()

	var messages []domain.ConversionMessage
	var lines []string
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			messages = append(messages, domain.ConversionMessage{
				Kind:    domain.MessageWarning,
				Message: fmt.Sprintf("page %d text extraction failed: %v", i+1, err),
			})
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
	}

	if len(lines) == 0 {
		messages = append(messages, domain.ConversionMessage{
			Kind:    domain.MessageWarning,
			Message: "no text layer found in PDF",
		})
		return pdfDiagnosticHTML, messages, nil
	}

	var sb strings.Builder
	inList := false
	for _, line := range lines {
		switch {
		case listMarkerPattern.MatchString(line):
			if !inList {
				sb.WriteString("<ul>\n")
				inList = true
			}
			item := listMarkerPattern.ReplaceAllString(line, "")
			sb.WriteString("<li>" + html.EscapeString(item) + "</li>\n")
			continue
		case looksLikeHeading(line):
			if inList {
				sb.WriteString("</ul>\n")
				inList = false
			}
			sb.WriteString("<h3>" + html.EscapeString(line) + "</h3>\n")
		default:
			if inList {
				sb.WriteString("</ul>\n")
				inList = false
			}
			sb.WriteString("<p>" + html.EscapeString(line) + "</p>\n")
		}
	}
	if inList {
		sb.WriteString("</ul>\n")
	}

	return sb.String(), messages, nil
}

// looksLikeHeading applies the line length/punctuation heuristic: short
// lines without terminal punctuation are treated as headings.
func looksLikeHeading(line string) bool {
	runes := []rune(line)
	if len(runes) == 0 || len(runes) > 60 {
		return false
	}
	return !strings.ContainsRune(".,;:!?)", runes[len(runes)-1])
}

const pdfDiagnosticHTML = `<div class="extraction-notice">
<p>No text could be extracted from this PDF. Likely causes:</p>
<ul>
<li>The document contains scanned images instead of a text layer</li>
<li>The document is password protected</li>
<li>The file is corrupted</li>
</ul>
</div>`
