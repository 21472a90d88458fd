package service

import (
	"sort"
	"strings"
	"unicode/utf8"

	"doc-analysis-server/internal/domain"
)

// TextSimilarity computes word-overlap similarity between two strings:
// the number of words of a that appear in b's word list, divided by the
// larger word count. Either side empty yields 0.
func TextSimilarity(a, b string) float64 {
	aWords := strings.Fields(strings.ToLower(a))
	bWords := strings.Fields(strings.ToLower(b))
	if len(aWords) == 0 || len(bWords) == 0 {
		return 0
	}

	bSet := make(map[string]bool, len(bWords))
	for _, w := range bWords {
		bSet[w] = true
	}

	overlap := 0
	for _, w := range aWords {
		if bSet[w] {
			overlap++
		}
	}

	max := len(aWords)
	if len(bWords) > max {
		max = len(bWords)
	}
	return float64(overlap) / float64(max)
}

// MatchesText reports whether text matches target under the given
// tolerance, together with the match confidence. Case-insensitive
// trimmed containment always satisfies the predicate regardless of
// tolerance and scores 1.0; otherwise word-overlap similarity must
// reach the tolerance.
func MatchesText(text, target string, tolerance float64) (bool, float64) {
	t := strings.ToLower(strings.TrimSpace(text))
	q := strings.ToLower(strings.TrimSpace(target))
	if q == "" {
		return false, 0
	}
	if strings.Contains(t, q) {
		return true, 1.0
	}

	score := TextSimilarity(text, target)
	if score >= tolerance {
		return true, score
	}
	return false, 0
}

// FindTextPositions scans every text block for the query and returns
// the matches sorted by confidence descending, truncated to
// opts.MaxResults. Each match carries a context window of
// opts.ContextLength characters on both sides, with ellipsis where the
// block text was cut.
func FindTextPositions(content *domain.DocumentContent, query string, opts domain.SearchOptions) []domain.MatchResult {
	if content == nil || strings.TrimSpace(query) == "" {
		return nil
	}

	var matches []domain.MatchResult
	for _, block := range content.TextBlocks {
		matched, confidence, matchType := matchBlock(block.Text, query, opts)
		if !matched {
			continue
		}
		matches = append(matches, domain.MatchResult{
			Page:        block.Page,
			Position:    block.Position,
			MatchedText: block.Text,
			Confidence:  confidence,
			MatchType:   matchType,
			Context:     contextWindow(block.Text, query, opts.CaseSensitive, opts.ContextLength),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	if opts.MaxResults > 0 && len(matches) > opts.MaxResults {
		matches = matches[:opts.MaxResults]
	}
	return matches
}

func matchBlock(text, query string, opts domain.SearchOptions) (bool, float64, domain.MatchType) {
	haystack, needle := text, query
	if !opts.CaseSensitive {
		haystack = strings.ToLower(text)
		needle = strings.ToLower(query)
	}
	if strings.Contains(haystack, strings.TrimSpace(needle)) {
		return true, 1.0, domain.MatchExact
	}
	if opts.FuzzyMatch {
		if score := TextSimilarity(text, query); score >= opts.Tolerance {
			return true, score, domain.MatchFuzzy
		}
	}
	return false, 0, ""
}

// contextWindow extracts the text surrounding the first occurrence of
// query, with leading/trailing ellipsis when truncated. Fuzzy matches
// without an exact occurrence get the truncated block text instead.
func contextWindow(text, query string, caseSensitive bool, contextLen int) string {
	if contextLen <= 0 {
		contextLen = 50
	}

	haystack, needle := text, query
	if !caseSensitive {
		haystack = strings.ToLower(text)
		needle = strings.ToLower(query)
	}

	runes := []rune(text)
	byteIdx := strings.Index(haystack, needle)
	if byteIdx < 0 {
		if len(runes) <= 2*contextLen {
			return text
		}
		return string(runes[:2*contextLen]) + "..."
	}

	matchStart := utf8.RuneCountInString(haystack[:byteIdx])
	matchEnd := matchStart + utf8.RuneCountInString(needle)

	start := matchStart - contextLen
	prefix := ""
	if start > 0 {
		prefix = "..."
	} else {
		start = 0
	}

	end := matchEnd + contextLen
	suffix := ""
	if end < len(runes) {
		suffix = "..."
	} else {
		end = len(runes)
	}

	return prefix + string(runes[start:end]) + suffix
}
