package report

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activitymonitor/config"
	"activitymonitor/entity"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

func rec(label string, cat entity.Category, tag string, active bool, secs int, at time.Duration) entity.ActivityRecord {
	return entity.ActivityRecord{
		Timestamp:       day.Add(at),
		Label:           label,
		Category:        cat,
		ProjectTag:      tag,
		IsActive:        active,
		DurationSeconds: secs,
	}
}

func TestFlatDailyScenario(t *testing.T) {
	records := []entity.ActivityRecord{
		rec("A", entity.Development, "", true, 600, 9*time.Hour),
		rec("B", entity.Browser, "", false, 300, 10*time.Hour),
		rec("A", entity.Development, "", true, 300, 11*time.Hour),
	}
	got := Flat(records, Filters{})
	assert.Equal(t, []Summary{
		{Label: "A", ActiveSeconds: 900, TotalSeconds: 900, ActivityCount: 2},
		{Label: "B", ActiveSeconds: 0, TotalSeconds: 300, ActivityCount: 1},
	}, got)
	assert.Equal(t, 300, got[1].IdleSeconds())

	tot := Totals(got)
	assert.Equal(t, DayTotals{ActiveSeconds: 900, TotalSeconds: 1200, IdleSeconds: 300, ActivePercent: 75}, tot)
}

func TestTieBreakIsLabelOrder(t *testing.T) {
	records := []entity.ActivityRecord{
		rec("beta", "", "", true, 5, 0),
		rec("Alpha", "", "", true, 5, 0),
		rec("alpha", "", "", true, 5, 0),
	}
	got := Flat(records, Filters{})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Alpha", "alpha", "beta"}, []string{got[0].Label, got[1].Label, got[2].Label})
}

func TestEmptyRange(t *testing.T) {
	assert.Empty(t, Flat(nil, Filters{}))
	assert.Empty(t, ByCategory(nil, Filters{}))
	assert.Empty(t, ByTag(nil, Filters{}, nil))
	assert.Equal(t, DayTotals{}, Totals(nil))
	grid := Weekly(nil, Filters{}, day)
	assert.Empty(t, grid.Rows)
	assert.Zero(t, grid.Total)
}

func TestByCategory(t *testing.T) {
	records := []entity.ActivityRecord{
		rec("VS - Site", entity.Development, "", true, 600, 0),
		rec("Code", entity.Development, "", true, 300, 0),
		rec("Browser: Docs", entity.Browser, "", true, 1200, 0),
		rec("App: foo", "", "", true, 100, 0),
		rec("Desktop", entity.System, "", true, 5000, 0),
		rec("", entity.Other, "", false, 50, 0),
	}
	got := ByCategory(records, Filters{HiddenCategories: []entity.Category{entity.System}})
	require.Len(t, got, 3)

	assert.Equal(t, "Browser", got[0].Name)
	assert.Equal(t, "Development", got[1].Name)
	assert.Equal(t, []Summary{
		{Label: "VS - Site", ActiveSeconds: 600, TotalSeconds: 600, ActivityCount: 1},
		{Label: "Code", ActiveSeconds: 300, TotalSeconds: 300, ActivityCount: 1},
	}, got[1].Children)

	other := got[2]
	assert.Equal(t, "Other", other.Name, "null category lands in Other")
	assert.Equal(t, 100, other.ActiveSeconds)
	assert.Equal(t, 150, other.TotalSeconds)
	assert.Equal(t, []string{"App: foo", Uncategorized}, []string{other.Children[0].Label, other.Children[1].Label})
	assert.Empty(t, other.Color)
}

func TestHiddenCategoriesKeepNullCategory(t *testing.T) {
	records := []entity.ActivityRecord{
		rec("x", "", "", true, 5, 0),
		rec("y", entity.System, "", true, 5, 0),
	}
	got := Flat(records, Filters{HiddenCategories: []entity.Category{entity.System, entity.Other}})
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].Label)
}

func TestByTag(t *testing.T) {
	records := []entity.ActivityRecord{
		rec("VS - Umbraco", entity.Development, "Umbraco", true, 900, 0),
		rec("Teams - Sync", entity.Communication, "Umbraco", true, 300, 0),
		rec("Spotify", entity.Media, "", true, 5000, 0),
		rec("VS - Other", entity.Development, "Internal", true, 600, 0),
	}
	colors := map[string]string{"Umbraco": "#123456"}
	got := ByTag(records, Filters{}, func(name string) string { return colors[name] })
	require.Len(t, got, 2, "untagged records have no bucket")

	assert.Equal(t, Group{
		Name: "Umbraco", Color: "#123456",
		ActiveSeconds: 1200, TotalSeconds: 1200, ActivityCount: 2,
		Children: []Summary{
			{Label: "VS - Umbraco", ActiveSeconds: 900, TotalSeconds: 900, ActivityCount: 1},
			{Label: "Teams - Sync", ActiveSeconds: 300, TotalSeconds: 300, ActivityCount: 1},
		},
	}, got[0])
	assert.Equal(t, "Internal", got[1].Name)
	assert.Equal(t, DefaultTagColor, got[1].Color)
}

func TestHiddenAppsNeverAppear(t *testing.T) {
	records := []entity.ActivityRecord{
		rec("Spotify: Song", entity.Media, "Focus", true, 600, 0),
		rec("SPOTIFY", entity.Media, "Focus", true, 600, time.Hour),
		rec("VS - App", entity.Development, "Focus", true, 300, 2*time.Hour),
	}
	f := Filters{HiddenApps: []string{"spotify", ""}}

	for _, s := range Flat(records, f) {
		assert.NotContains(t, s.Label, "potify")
	}
	for _, groups := range [][]Group{ByCategory(records, f), ByTag(records, f, nil)} {
		for _, g := range groups {
			for _, c := range g.Children {
				assert.NotContains(t, c.Label, "potify")
			}
		}
	}
	for _, row := range Weekly(records, f, day).Rows {
		assert.NotContains(t, row.Label, "potify")
	}
	assert.Len(t, Flat(records, f), 1)
}

func TestMinimumActivity(t *testing.T) {
	records := []entity.ActivityRecord{
		rec("big", entity.Development, "T", true, 600, 0),
		rec("small", entity.Development, "T", true, 30, 0),
		rec("tiny", entity.Browser, "", true, 20, 0),
		rec("idle", entity.Browser, "", false, 900, 0),
	}
	f := Filters{MinActivitySeconds: 60}

	flat := Flat(records, f)
	require.Len(t, flat, 1)
	assert.Equal(t, "big", flat[0].Label)

	cats := ByCategory(records, f)
	require.Len(t, cats, 1, "a group left without children is absent")
	assert.Equal(t, "Development", cats[0].Name)
	assert.Equal(t, 600, cats[0].ActiveSeconds)
	assert.Len(t, cats[0].Children, 1)
}

func TestFiltersFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.HiddenApps = []string{" ", "Spotify "}
	cfg.MinimumActivitySeconds = 30

	f := FiltersFromConfig(cfg)
	assert.Equal(t, Filters{
		HiddenCategories:   []entity.Category{entity.System},
		HiddenApps:         []string{"Spotify"},
		MinActivitySeconds: 30,
	}, f)
	assert.Equal(t, Filters{}, FiltersFromConfig(nil))
}

func randomRecords(seed int64, n int) []entity.ActivityRecord {
	r := rand.New(rand.NewSource(seed))
	labels := []string{"VS - A", "VS - B", "Browser: X", "Slack", "Spotify", "", "Desktop"}
	cats := []entity.Category{"", entity.Development, entity.Browser, entity.Communication, entity.Media, entity.System}
	tags := []string{"", "", "Alpha", "Beta"}
	out := make([]entity.ActivityRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, entity.ActivityRecord{
			ID:              int64(i + 1),
			Timestamp:       day.Add(time.Duration(r.Intn(7*24*3600)) * time.Second),
			Label:           labels[r.Intn(len(labels))],
			Category:        cats[r.Intn(len(cats))],
			ProjectTag:      tags[r.Intn(len(tags))],
			IsActive:        r.Intn(3) > 0,
			DurationSeconds: 5,
		})
	}
	return out
}

func TestConservationAndHierarchy(t *testing.T) {
	records := randomRecords(42, 2000)
	filterSets := []Filters{
		{},
		{HiddenCategories: []entity.Category{entity.System}},
		{HiddenApps: []string{"vs"}},
		{HiddenCategories: []entity.Category{entity.Media, entity.Browser}, HiddenApps: []string{"desk"}},
	}
	for _, f := range filterSets {
		raw := 0
		for _, r := range f.Apply(records) {
			if r.IsActive {
				raw += r.DurationSeconds
			}
		}

		flatSum := 0
		for _, s := range Flat(records, f) {
			flatSum += s.ActiveSeconds
		}
		assert.Equal(t, raw, flatSum)

		catSum := 0
		for _, g := range ByCategory(records, f) {
			childSum, childTotal, childCount := 0, 0, 0
			for _, c := range g.Children {
				childSum += c.ActiveSeconds
				childTotal += c.TotalSeconds
				childCount += c.ActivityCount
			}
			assert.Equal(t, g.ActiveSeconds, childSum)
			assert.Equal(t, g.TotalSeconds, childTotal)
			assert.Equal(t, g.ActivityCount, childCount)
			catSum += g.ActiveSeconds
		}
		assert.Equal(t, raw, catSum)

		for _, g := range ByTag(records, f, nil) {
			childSum := 0
			for _, c := range g.Children {
				childSum += c.ActiveSeconds
			}
			assert.Equal(t, g.ActiveSeconds, childSum)
		}
	}
}

func TestAggregationIsIdempotent(t *testing.T) {
	records := randomRecords(7, 500)
	f := Filters{HiddenCategories: []entity.Category{entity.System}, MinActivitySeconds: 10}

	shuffled := make([]entity.ActivityRecord, len(records))
	copy(shuffled, records)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	assert.Equal(t, Flat(records, f), Flat(records, f))
	assert.Equal(t, Flat(records, f), Flat(shuffled, f))
	assert.Equal(t, ByCategory(records, f), ByCategory(shuffled, f))
	assert.Equal(t, ByTag(records, f, nil), ByTag(shuffled, f, nil))
	assert.Equal(t, Weekly(records, f, day), Weekly(shuffled, f, day))
}
