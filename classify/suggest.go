package classify

import (
	"regexp"
	"strings"
)

const maxSuggestions = 10

var (
	titleSeparators = regexp.MustCompile(`\s*[-|/\\]\s*`)

	// A segment containing any of these anywhere is dropped, so "Theme"
	// and "Android" go along with "the" and "and".
	skipWords = []string{"microsoft visual studio", "visual studio code", "google chrome", "microsoft", "the", "and"}
)

// Suggestions proposes labels for manually relabelling a record with the
// given title: title segments first, then existing labels, without
// case-insensitive duplicates.
func Suggestions(title string, existing []string) []string {
	var candidates []string
	for _, part := range titleSeparators.Split(title, -1) {
		part = strings.TrimSpace(part)
		n := len([]rune(part))
		if n < 3 || n > 50 {
			continue
		}
		lower := strings.ToLower(part)
		if containsAny(lower, skipWords) {
			continue
		}
		candidates = append(candidates, part)
	}
	candidates = append(candidates, existing...)

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, maxSuggestions)
	for _, c := range candidates {
		key := strings.ToLower(c)
		if _, ok := seen[key]; ok || c == "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
