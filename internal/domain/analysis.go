package domain

// DetectImageOptions configures the geometric image-after-text check.
// Constructed once at the API boundary and passed by value.
type DetectImageOptions struct {
	// SearchRadius is the maximum Euclidean distance between the matched
	// text block and an image, in layout units. Default 100, must be > 0.
	SearchRadius float64
	// Tolerance is the fuzzy-match similarity threshold in [0,1].
	// Default 0.8. Ignored unless FuzzyMatch is set.
	Tolerance float64
	// LineHeight is the assumed line height in layout units, used to
	// compute the below-text band. Default 20, must be > 0.
	LineHeight float64
	// FuzzyMatch enables word-overlap matching; when false the target
	// must appear as a substring of a block. Default false.
	FuzzyMatch bool
}

// DefaultDetectImageOptions returns the documented defaults.
func DefaultDetectImageOptions() DetectImageOptions {
	return DetectImageOptions{
		SearchRadius: 100,
		Tolerance:    0.8,
		LineHeight:   20,
	}
}

// SearchOptions configures document-wide text search.
type SearchOptions struct {
	// CaseSensitive makes exact containment respect case. Default false.
	CaseSensitive bool
	// FuzzyMatch enables word-overlap matching. Default false.
	FuzzyMatch bool
	// Tolerance is the fuzzy similarity threshold in [0,1]. Default 0.8.
	Tolerance float64
	// MaxResults caps the returned matches. Default 10, must be > 0.
	MaxResults int
	// ContextLength is the number of characters of context kept on each
	// side of a match. Default 50.
	ContextLength int
}

// DefaultSearchOptions returns the documented defaults.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Tolerance:     0.8,
		MaxResults:    10,
		ContextLength: 50,
	}
}

// MatchType tells how a text block matched the query.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchFuzzy MatchType = "fuzzy"
)

// MatchResult is one text-search hit.
type MatchResult struct {
	Page        int       `json:"page"`
	Position    Rect      `json:"position"`
	MatchedText string    `json:"matchedText"`
	Confidence  float64   `json:"confidence"`
	MatchType   MatchType `json:"matchType"`
	Context     string    `json:"context"`
}

// SearchReport is the payload of a document-wide text search.
type SearchReport struct {
	SearchText   string        `json:"searchText"`
	TotalMatches int           `json:"totalMatches"`
	Matches      []MatchResult `json:"matches"`
	DocumentInfo DocumentInfo  `json:"documentInfo"`
}

// ImageDetail describes one image that qualifies as sitting below the
// matched text.
type ImageDetail struct {
	Position Rect    `json:"position"`
	Kind     string  `json:"kind"`
	Index    int     `json:"index"`
	Distance float64 `json:"distance"`
	// IsBelowText is always true for qualifying images; kept explicit
	// for response compatibility.
	IsBelowText bool `json:"isBelowText"`
	// RelativePosition is "left", "center" or "right" relative to the
	// text block's horizontal center.
	RelativePosition string `json:"relativePosition"`
}

// AdjacencyVerdict is the result of the geometric image-after-text
// check. TextPosition is nil when no block matched the target.
type AdjacencyVerdict struct {
	TargetText    string        `json:"targetText"`
	HasImageAfter bool          `json:"hasImageAfter"`
	ImageDetails  []ImageDetail `json:"imageDetails"`
	TextPosition  *Rect         `json:"textPosition"`
	Confidence    float64       `json:"confidence"`
}

// ContentReport is the payload of the markup-path content extraction:
// the normalized text plus one result entry per requested target
// ("" when the target has an image right after it, "missing: X" when
// it does not).
type ContentReport struct {
	CleanedHTMLText string              `json:"cleanedHtmlText"`
	Result          []string            `json:"result"`
	TargetText      string              `json:"targetText"`
	OriginalFile    string              `json:"originalFile"`
	Messages        []ConversionMessage `json:"messages,omitempty"`
}
