// Package domain contains the core entities and service interfaces.
package domain

// Rect is an axis-aligned rectangle in abstract layout units. Positions
// produced by the extractors are heuristically estimated, not measured,
// so callers must not treat them as calibrated PDF points.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 {
	return r.X + r.Width/2
}

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 {
	return r.Y + r.Height/2
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// TextBlock is one unit of text in document reading order.
type TextBlock struct {
	Page     int    `json:"page"`
	Text     string `json:"text"`
	Position Rect   `json:"position"`
}

// ImagePosition records where an image sits in the document.
type ImagePosition struct {
	Page     int    `json:"page"`
	Position Rect   `json:"position"`
	Kind     string `json:"kind"`
	Index    int    `json:"index"`
}

// DocumentContent is the geometric model of a document: ordered text
// blocks plus image position records. Every page value is in
// [1, PageCount].
type DocumentContent struct {
	TextBlocks     []TextBlock     `json:"textBlocks"`
	ImagePositions []ImagePosition `json:"imagePositions"`
	PageCount      int             `json:"pageCount"`

	// Approximate is set when positions (and possibly text) were
	// synthesized rather than read from the file, e.g. the PDF path
	// which does not perform real text extraction.
	Approximate bool `json:"approximate"`
}

// DocumentInfo summarizes an extracted document for API responses.
type DocumentInfo struct {
	FileName    string `json:"fileName"`
	Format      string `json:"format"`
	PageCount   int    `json:"pageCount"`
	TextBlocks  int    `json:"textBlocks"`
	Images      int    `json:"images"`
	Approximate bool   `json:"approximate"`
}

// ExtractedImage describes one image pulled out of a document.
// ImageURL is a base64 data URI, or empty when the bytes could not be
// extracted (the PDF path reports page regions only).
type ExtractedImage struct {
	Description      string `json:"description"`
	ImageURL         string `json:"imageUrl"`
	Format           string `json:"format"`
	Size             int64  `json:"size,omitempty"`
	OriginalPath     string `json:"originalPath,omitempty"`
	OriginalFileName string `json:"originalFileName"`
}

// MessageKind classifies a conversion message.
type MessageKind string

const (
	MessageInfo    MessageKind = "info"
	MessageWarning MessageKind = "warning"
	MessageError   MessageKind = "error"
)

// ConversionMessage is a normalized diagnostic from a converter. The
// underlying readers produce mixed shapes; they are normalized into this
// record at the boundary and never propagated raw.
type ConversionMessage struct {
	Kind    MessageKind `json:"kind"`
	Message string      `json:"message"`
}

// ConvertOptions controls the markup (HTML) conversion path.
type ConvertOptions struct {
	// IncludeImages inlines embedded images as base64 data URIs.
	// Default true.
	IncludeImages bool
	// IgnoreEmptyParagraphs drops paragraphs with no text and no image.
	// Default true.
	IgnoreEmptyParagraphs bool
	// IDPrefix, when non-empty, adds id="{prefix}-{n}" to each emitted
	// paragraph element.
	IDPrefix string
}

// DefaultConvertOptions returns the conversion defaults.
func DefaultConvertOptions() ConvertOptions {
	return ConvertOptions{
		IncludeImages:         true,
		IgnoreEmptyParagraphs: true,
	}
}
