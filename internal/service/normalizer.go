package service

import (
	"regexp"
	"strings"
)

// ImagePlaceholder is the literal token substituted for every
// image-bearing markup element during normalization.
const ImagePlaceholder = "[image]"

// Image element variants are replaced before generic tag stripping, or
// they would be stripped without leaving a placeholder. Container
// elements are matched non-greedily with their content.
var imageTagPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<picture\b[^>]*>.*?</picture\s*>`),
	regexp.MustCompile(`(?is)<figure\b[^>]*>.*?</figure\s*>`),
	regexp.MustCompile(`(?is)<svg\b[^>]*>.*?</svg\s*>`),
	regexp.MustCompile(`(?is)<canvas\b[^>]*>.*?</canvas\s*>`),
	regexp.MustCompile(`(?is)<img\b[^>]*>`),
	regexp.MustCompile(`(?is)<image\b[^>]*>`),
}

var (
	anyTagPattern             = regexp.MustCompile(`(?s)<[^>]*>`)
	whitespacePattern         = regexp.MustCompile(`\s+`)
	adjacentPlaceholderRegexp = regexp.MustCompile(`\[image\](?:\s*\[image\])+`)
)

// entityReplacer decodes a fixed table of named HTML entities in a
// single pass. Entities outside the table, including numeric ones, are
// left as-is.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#039;", "'",
	"&nbsp;", " ",
	"&copy;", "©",
	"&reg;", "®",
	"&trade;", "™",
	"&hellip;", "…",
	"&mdash;", "—",
	"&ndash;", "–",
	"&ldquo;", "“",
	"&rdquo;", "”",
	"&lsquo;", "‘",
	"&rsquo;", "’",
)

// HTMLToPlainText collapses an HTML markup string into plain text with
// image placeholders. Pure and total: empty input yields an empty
// string, and the function never fails.
//
// Order matters: image elements become the placeholder token first,
// remaining tags are stripped, the fixed entity table is decoded,
// whitespace runs collapse to single spaces, and finally adjacent
// placeholders merge so occurrences of the token are maximal.
func HTMLToPlainText(html string) string {
	if html == "" {
		return ""
	}

	text := html
	for _, pattern := range imageTagPatterns {
		text = pattern.ReplaceAllString(text, ImagePlaceholder)
	}

	text = anyTagPattern.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	text = adjacentPlaceholderRegexp.ReplaceAllString(text, ImagePlaceholder)

	return text
}
