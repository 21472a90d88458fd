package service

import (
	"math"
	"strings"
	"testing"

	"doc-analysis-server/internal/domain"
)

func TestTextSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"a b c", "a b", 2.0 / 3.0},
		{"a b", "a b", 1.0},
		{"a b", "c d", 0},
		{"", "a b", 0},
		{"a b", "", 0},
		{"Hello World", "hello world", 1.0}, // case-insensitive
	}

	for _, tt := range tests {
		got := TextSimilarity(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("TextSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMatchesText(t *testing.T) {
	// exact containment satisfies regardless of tolerance
	ok, score := MatchesText("the quick brown fox", "quick brown", 1.0)
	if !ok || score != 1.0 {
		t.Errorf("containment match = (%v, %v), want (true, 1.0)", ok, score)
	}

	// case-insensitive, trimmed
	ok, _ = MatchesText("The Quick Brown Fox", "  quick brown  ", 1.0)
	if !ok {
		t.Error("expected case-insensitive trimmed containment to match")
	}

	// fuzzy match above tolerance
	ok, score = MatchesText("a b c", "a b x", 0.5)
	if !ok {
		t.Error("expected fuzzy match at tolerance 0.5")
	}
	if math.Abs(score-2.0/3.0) > 1e-9 {
		t.Errorf("fuzzy score = %v, want 2/3", score)
	}

	// below tolerance
	if ok, _ = MatchesText("a b c", "a x y", 0.8); ok {
		t.Error("expected no match below tolerance")
	}

	// empty target never matches
	if ok, _ = MatchesText("anything", "", 0); ok {
		t.Error("expected empty target not to match")
	}
}

func searchContent() *domain.DocumentContent {
	return &domain.DocumentContent{
		PageCount: 2,
		TextBlocks: []domain.TextBlock{
			{Page: 1, Text: "introduction to the system", Position: domain.Rect{X: 72, Y: 72, Width: 450, Height: 20}},
			{Page: 1, Text: "the system overview and details", Position: domain.Rect{X: 72, Y: 92, Width: 450, Height: 20}},
			{Page: 2, Text: "unrelated closing remarks", Position: domain.Rect{X: 72, Y: 72, Width: 450, Height: 20}},
		},
	}
}

func TestFindTextPositionsExact(t *testing.T) {
	matches := FindTextPositions(searchContent(), "system", domain.DefaultSearchOptions())
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	for _, m := range matches {
		if m.MatchType != domain.MatchExact {
			t.Errorf("matchType = %q, want exact", m.MatchType)
		}
		if m.Confidence != 1.0 {
			t.Errorf("confidence = %v, want 1.0", m.Confidence)
		}
	}
}

func TestFindTextPositionsMaxResults(t *testing.T) {
	opts := domain.DefaultSearchOptions()
	opts.MaxResults = 1
	matches := FindTextPositions(searchContent(), "system", opts)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
}

func TestFindTextPositionsSortedByConfidence(t *testing.T) {
	content := &domain.DocumentContent{
		PageCount: 1,
		TextBlocks: []domain.TextBlock{
			{Page: 1, Text: "alpha beta gamma delta"},
			{Page: 1, Text: "alpha beta"},
		},
	}
	opts := domain.DefaultSearchOptions()
	opts.FuzzyMatch = true
	opts.Tolerance = 0.4

	matches := FindTextPositions(content, "alpha beta", opts)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Confidence < matches[1].Confidence {
		t.Errorf("matches not sorted by confidence: %v then %v",
			matches[0].Confidence, matches[1].Confidence)
	}
}

func TestFindTextPositionsCaseSensitive(t *testing.T) {
	content := &domain.DocumentContent{
		PageCount:  1,
		TextBlocks: []domain.TextBlock{{Page: 1, Text: "The System"}},
	}

	opts := domain.DefaultSearchOptions()
	opts.CaseSensitive = true
	if matches := FindTextPositions(content, "system", opts); len(matches) != 0 {
		t.Errorf("case-sensitive search matched %d blocks, want 0", len(matches))
	}

	opts.CaseSensitive = false
	if matches := FindTextPositions(content, "system", opts); len(matches) != 1 {
		t.Errorf("case-insensitive search matched %d blocks, want 1", len(matches))
	}
}

func TestContextWindowEllipsis(t *testing.T) {
	long := strings.Repeat("x", 80) + " needle " + strings.Repeat("y", 80)
	got := contextWindow(long, "needle", false, 10)

	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis on both ends, got %q", got)
	}
	if !strings.Contains(got, "needle") {
		t.Errorf("context %q does not contain the match", got)
	}
}

func TestContextWindowShortText(t *testing.T) {
	got := contextWindow("short needle text", "needle", false, 50)
	if got != "short needle text" {
		t.Errorf("got %q, want full text without ellipsis", got)
	}
}

func TestFindTextPositionsEmptyQuery(t *testing.T) {
	if matches := FindTextPositions(searchContent(), "  ", domain.DefaultSearchOptions()); matches != nil {
		t.Errorf("got %d matches for blank query, want none", len(matches))
	}
}
