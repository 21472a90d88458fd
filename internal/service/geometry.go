package service

import (
	"math"

	"doc-analysis-server/internal/domain"
)

// The below-text band is a deliberate heuristic tie-break, not a
// measured relationship: an image counts as "below" a text block when
// its top edge falls between half a line height and three line heights
// under the block's bottom edge, boundary-inclusive.
const (
	minGapLineFactor = 0.5
	maxGapLineFactor = 3.0
	// centerBand is the horizontal slack, in layout units, within which
	// an image is considered centered under the text.
	centerBand = 50.0
)

// DetectImageAfterText determines whether an image lies within the
// distance/height band below the first text block matching target.
// Scanning stops at the first matching block; if none matches, the
// verdict has no text position and zero confidence.
func DetectImageAfterText(content *domain.DocumentContent, target string, opts domain.DetectImageOptions) *domain.AdjacencyVerdict {
	verdict := &domain.AdjacencyVerdict{TargetText: target}
	if content == nil || target == "" {
		return verdict
	}

	tolerance := opts.Tolerance
	if !opts.FuzzyMatch {
		// exact containment only
		tolerance = 1.0
	}

	for _, block := range content.TextBlocks {
		matched, confidence := MatchesText(block.Text, target, tolerance)
		if !matched {
			continue
		}

		textPos := block.Position
		verdict.TextPosition = &textPos
		verdict.Confidence = confidence

		minTop := textPos.Bottom() + minGapLineFactor*opts.LineHeight
		maxTop := textPos.Bottom() + maxGapLineFactor*opts.LineHeight

		for _, img := range content.ImagePositions {
			distance := rectDistance(textPos, img.Position)
			if distance > opts.SearchRadius {
				continue
			}
			top := img.Position.Y
			if top < minTop || top > maxTop {
				continue
			}
			verdict.ImageDetails = append(verdict.ImageDetails, domain.ImageDetail{
				Position:         img.Position,
				Kind:             img.Kind,
				Index:            img.Index,
				Distance:         distance,
				IsBelowText:      true,
				RelativePosition: relativePosition(textPos, img.Position),
			})
		}

		verdict.HasImageAfter = len(verdict.ImageDetails) > 0
		break
	}

	return verdict
}

// rectDistance is the Euclidean distance between the centers of two
// rectangles.
func rectDistance(a, b domain.Rect) float64 {
	dx := a.CenterX() - b.CenterX()
	dy := a.CenterY() - b.CenterY()
	return math.Sqrt(dx*dx + dy*dy)
}

// relativePosition classifies where the image sits horizontally
// relative to the text block's center.
func relativePosition(text, image domain.Rect) string {
	delta := image.CenterX() - text.CenterX()
	switch {
	case delta < -centerBand:
		return "left"
	case delta > centerBand:
		return "right"
	default:
		return "center"
	}
}
