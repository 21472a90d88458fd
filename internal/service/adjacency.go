package service

import "strings"

// IsFollowedByImage reports whether an occurrence of target in text is
// immediately followed by the image placeholder token. Only a
// zero-character gap counts; any occurrence qualifying is sufficient.
// An empty target never matches.
func IsFollowedByImage(text, target string) bool {
	if target == "" {
		return false
	}

	parts := strings.Split(text, target)
	if len(parts) < 2 {
		// target does not occur in text
		return false
	}

	for _, after := range parts[1:] {
		if strings.HasPrefix(after, ImagePlaceholder) {
			return true
		}
	}
	return false
}

// CheckLabelsHaveImages validates a comma-separated list of required
// labels against normalized text. The result has one entry per label:
// the empty string when the label is followed by an image, or
// "missing: {label}" when it is not.
func CheckLabelsHaveImages(text, targetList string) []string {
	var results []string
	for _, raw := range strings.Split(targetList, ",") {
		target := strings.TrimSpace(raw)
		if target == "" {
			continue
		}
		if IsFollowedByImage(text, target) {
			results = append(results, "")
		} else {
			results = append(results, "missing: "+target)
		}
	}
	return results
}
