package entity

import "strings"

// Category is the coarse bucket assigned next to a label.
type Category string

const (
	Development   Category = "Development"
	Browser       Category = "Browser"
	Communication Category = "Communication"
	RemoteDesktop Category = "Remote Desktop"
	Office        Category = "Office"
	Email         Category = "Email"
	Terminal      Category = "Terminal"
	Editor        Category = "Editor"
	Media         Category = "Media"
	System        Category = "System"
	Security      Category = "Security"
	Other         Category = "Other"
)

// DefaultHidden lists the categories hidden from reports unless configured otherwise.
var DefaultHidden = []Category{System}

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{
		Development, Browser, Communication,
		RemoteDesktop, Office, Email,
		Terminal, Editor, Media,
		System, Security, Other,
	}
}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range AllCategories() {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// IsNull reports whether the category was never assigned.
func (c Category) IsNull() bool { return c == "" }
