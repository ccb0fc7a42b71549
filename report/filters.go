// Package report aggregates stored activity records into daily, weekly,
// category and tag summaries. Everything except Engine is a pure function
// over an already fetched record slice.
package report

import (
	"strings"

	"activitymonitor/config"
	"activitymonitor/entity"
)

// Uncategorized replaces an empty label from older records.
const Uncategorized = "Uncategorized"

// Filters are applied at query time and never change stored records.
type Filters struct {
	// HiddenCategories drops records in these categories. Records without a
	// category are never dropped by this filter.
	HiddenCategories []entity.Category

	// HiddenApps drops records whose label contains any of these
	// substrings, case-insensitively. Empty patterns are ignored.
	HiddenApps []string

	// MinActivitySeconds drops grouped rows with less active time.
	MinActivitySeconds int
}

// FiltersFromConfig reads the report filters of cfg.
func FiltersFromConfig(cfg *config.Config) Filters {
	if cfg == nil {
		return Filters{}
	}
	apps := make([]string, 0, len(cfg.HiddenApps))
	for _, a := range cfg.HiddenApps {
		if a = strings.TrimSpace(a); a != "" {
			apps = append(apps, a)
		}
	}
	return Filters{
		HiddenCategories:   cfg.Categories(),
		HiddenApps:         apps,
		MinActivitySeconds: cfg.MinimumActivitySeconds,
	}
}

func labelOf(r entity.ActivityRecord) string {
	if r.Label == "" {
		return Uncategorized
	}
	return r.Label
}

// Keep reports whether a record survives the per-record filters.
func (f Filters) Keep(r entity.ActivityRecord) bool {
	if !r.Category.IsNull() {
		for _, c := range f.HiddenCategories {
			if r.Category == c {
				return false
			}
		}
	}
	if len(f.HiddenApps) > 0 {
		label := strings.ToLower(labelOf(r))
		for _, p := range f.HiddenApps {
			if p != "" && strings.Contains(label, strings.ToLower(p)) {
				return false
			}
		}
	}
	return true
}

// Apply returns the records that pass Keep, in their original order.
func (f Filters) Apply(records []entity.ActivityRecord) []entity.ActivityRecord {
	out := make([]entity.ActivityRecord, 0, len(records))
	for _, r := range records {
		if f.Keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (f Filters) belowMinimum(activeSeconds int) bool {
	return f.MinActivitySeconds > 0 && activeSeconds < f.MinActivitySeconds
}
