package classify

import (
	"regexp"
	"strings"
)

// Desktop is stored as the title when no window has focus.
const Desktop = "Desktop"

var morePagesAnywhere = regexp.MustCompile(`(?i)\s+and\s+\d+\s+more\s+pages?\s*`)

// CleanTitle removes browser noise from a window title before it is
// stored. Classification still sees the raw title.
func CleanTitle(title string) string {
	title = morePagesAnywhere.ReplaceAllString(title, " ")
	for _, suffix := range browserSuffixes {
		if strings.HasSuffix(title, suffix) {
			title = strings.TrimSuffix(title, suffix)
			break
		}
	}
	title = strings.Join(strings.Fields(title), " ")
	if title == "" || strings.EqualFold(title, "program manager") {
		return Desktop
	}
	return title
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ellipsize shortens s to n runes, ending in "...".
func ellipsize(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
