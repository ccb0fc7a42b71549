package report

import (
	"sort"

	"activitymonitor/entity"
)

// DefaultTagColor is used for a tag name the rule set no longer knows.
// Tags stored without a colour get entity.DefaultTagColor instead.
const DefaultTagColor = "#888888"

// Summary is one label's totals.
type Summary struct {
	Label         string `json:"label"`
	ActiveSeconds int    `json:"active_seconds"`
	TotalSeconds  int    `json:"total_seconds"`
	ActivityCount int    `json:"activity_count"`
}

// IdleSeconds is derived, never stored.
func (s Summary) IdleSeconds() int { return s.TotalSeconds - s.ActiveSeconds }

func (s *Summary) add(r entity.ActivityRecord) {
	if r.IsActive {
		s.ActiveSeconds += r.DurationSeconds
	}
	s.TotalSeconds += r.DurationSeconds
	s.ActivityCount++
}

// Group is a category or tag rollup with its per-label children.
// Its totals are always the sum of its children.
type Group struct {
	Name          string    `json:"name"`
	Color         string    `json:"color,omitempty"`
	ActiveSeconds int       `json:"active_seconds"`
	TotalSeconds  int       `json:"total_seconds"`
	ActivityCount int       `json:"activity_count"`
	Children      []Summary `json:"children"`
}

// IdleSeconds is derived, never stored.
func (g Group) IdleSeconds() int { return g.TotalSeconds - g.ActiveSeconds }

// DayTotals summarises a day.
type DayTotals struct {
	ActiveSeconds int
	TotalSeconds  int
	IdleSeconds   int
	ActivePercent float64
}

// sortSummaries orders by active time descending, then label ascending.
func sortSummaries(rows []Summary) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ActiveSeconds != rows[j].ActiveSeconds {
			return rows[i].ActiveSeconds > rows[j].ActiveSeconds
		}
		return rows[i].Label < rows[j].Label
	})
}

func sortGroups(groups []Group) {
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].ActiveSeconds != groups[j].ActiveSeconds {
			return groups[i].ActiveSeconds > groups[j].ActiveSeconds
		}
		return groups[i].Name < groups[j].Name
	})
}

// byLabel sums kept records per label, without the minimum filter.
func byLabel(records []entity.ActivityRecord, f Filters) map[string]*Summary {
	sums := map[string]*Summary{}
	for _, r := range records {
		if !f.Keep(r) {
			continue
		}
		label := labelOf(r)
		s, ok := sums[label]
		if !ok {
			s = &Summary{Label: label}
			sums[label] = s
		}
		s.add(r)
	}
	return sums
}

func finish(sums map[string]*Summary, f Filters) []Summary {
	out := make([]Summary, 0, len(sums))
	for _, s := range sums {
		if f.belowMinimum(s.ActiveSeconds) {
			continue
		}
		out = append(out, *s)
	}
	sortSummaries(out)
	return out
}

// Flat groups records by label.
func Flat(records []entity.ActivityRecord, f Filters) []Summary {
	return finish(byLabel(records, f), f)
}

// ByCategory groups records by category, then label. Records without a
// category fall into Other.
func ByCategory(records []entity.ActivityRecord, f Filters) []Group {
	return nested(records, f, func(r entity.ActivityRecord) (string, bool) {
		if r.Category.IsNull() {
			return string(entity.Other), true
		}
		return string(r.Category), true
	}, nil)
}

// ByTag groups tagged records by tag, then label. Untagged records are
// left out; there is no untagged bucket. colorOf may be nil.
func ByTag(records []entity.ActivityRecord, f Filters, colorOf func(name string) string) []Group {
	return nested(records, f, func(r entity.ActivityRecord) (string, bool) {
		return r.ProjectTag, r.ProjectTag != ""
	}, func(name string) string {
		if colorOf != nil {
			if c := colorOf(name); c != "" {
				return c
			}
		}
		return DefaultTagColor
	})
}

func nested(records []entity.ActivityRecord, f Filters, key func(entity.ActivityRecord) (string, bool), color func(string) string) []Group {
	buckets := map[string][]entity.ActivityRecord{}
	for _, r := range records {
		k, ok := key(r)
		if !ok {
			continue
		}
		buckets[k] = append(buckets[k], r)
	}

	groups := make([]Group, 0, len(buckets))
	for name, recs := range buckets {
		children := finish(byLabel(recs, f), f)
		if len(children) == 0 {
			continue
		}
		g := Group{Name: name, Children: children}
		for _, c := range children {
			g.ActiveSeconds += c.ActiveSeconds
			g.TotalSeconds += c.TotalSeconds
			g.ActivityCount += c.ActivityCount
		}
		if f.belowMinimum(g.ActiveSeconds) {
			continue
		}
		if color != nil {
			g.Color = color(name)
		}
		groups = append(groups, g)
	}
	sortGroups(groups)
	return groups
}

// Totals sums the rows of a flat summary.
func Totals(rows []Summary) DayTotals {
	var t DayTotals
	for _, r := range rows {
		t.ActiveSeconds += r.ActiveSeconds
		t.TotalSeconds += r.TotalSeconds
	}
	t.IdleSeconds = t.TotalSeconds - t.ActiveSeconds
	if t.TotalSeconds > 0 {
		t.ActivePercent = float64(t.ActiveSeconds) / float64(t.TotalSeconds) * 100
	}
	return t
}
