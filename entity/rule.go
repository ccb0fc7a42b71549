package entity

import "fmt"

// MatchType selects which sample field a DisplayMapping is compared with.
type MatchType string

const (
	MatchProcess MatchType = "process"
	MatchProject MatchType = "project"
	MatchWindow  MatchType = "window"
)

// ParseMatchType validates a stored match_type value.
func ParseMatchType(s string) (MatchType, error) {
	switch MatchType(s) {
	case MatchProcess, MatchProject, MatchWindow:
		return MatchType(s), nil
	}
	return "", fmt.Errorf("unknown match type %q", s)
}

// DisplayMapping rewrites the app or project half of a display label.
type DisplayMapping struct {
	ID          int64     `db:"id" json:"id"`
	MatchType   MatchType `db:"match_type" json:"match_type"`
	MatchValue  string    `db:"match_value" json:"match_value"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Priority    int       `db:"priority" json:"priority"`
	Enabled     bool      `db:"enabled" json:"enabled"`
}

// ProjectTag groups activities under a user-defined project,
// independently of label and category.
type ProjectTag struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Color    string   `json:"color"`
	Enabled  bool     `json:"enabled"`
}

// KeywordRule assigns a fixed label when one of its patterns is found in
// the process name or window title.
type KeywordRule struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Patterns []string `json:"patterns"`
	Regex    bool     `json:"regex"`
	Priority int      `json:"priority"`
	Category Category `json:"category,omitempty"`
	Enabled  bool     `json:"enabled"`
}

// DefaultTagColor is used for tags created without a colour.
const DefaultTagColor = "#4A90D9"
