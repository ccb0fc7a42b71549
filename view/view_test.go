package view

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"activitymonitor/entity"
	"activitymonitor/report"
)

func TestThemes(t *testing.T) {
	for _, name := range []string{"mocha", "Latte", "frappe", "macchiato", "unknown"} {
		th := NewTheme(name)
		assert.NotEmpty(t, string(th.Accent(0)), name)
		assert.Equal(t, th.Accent(0), th.Accent(10))
		assert.Equal(t, th.Accent(9), th.Accent(-1))
	}
	assert.Equal(t, NewTheme("mocha").Accent(3), NewTheme("nope").Accent(3))
}

func TestCellPadsAndTruncates(t *testing.T) {
	assert.Equal(t, 10, lipgloss.Width(cell("abc", 10)))
	got := cell("a very long project label", 10)
	assert.Contains(t, got, "...")
	assert.LessOrEqual(t, lipgloss.Width(strings.TrimRight(got, " ")), 10)
}

func TestDaily(t *testing.T) {
	th := NewTheme("mocha")
	rows := []report.Summary{
		{Label: "VS Code - api", ActiveSeconds: 7500, TotalSeconds: 7800, ActivityCount: 1560},
		{Label: "Slack", ActiveSeconds: 720, TotalSeconds: 720, ActivityCount: 144},
	}
	out := th.Daily("2026-03-02", rows, report.Totals(rows), 0)
	assert.Contains(t, out, "Activity for 2026-03-02")
	assert.Contains(t, out, "VS Code - api")
	assert.Contains(t, out, "2h 5m")
	assert.Contains(t, out, "12m")
	assert.Contains(t, out, "1560")

	assert.Contains(t, th.Daily("2026-03-02", nil, report.DayTotals{}, 0), "No activity recorded.")
}

func TestGroupsAndWeek(t *testing.T) {
	th := NewTheme("latte")
	groups := []report.Group{{
		Name: "Umbraco", Color: "#123456", ActiveSeconds: 1200,
		Children: []report.Summary{{Label: "Teams - Sync", ActiveSeconds: 1200}},
	}}
	out := th.Groups("By tag", groups, 0)
	assert.Contains(t, out, "Umbraco")
	assert.Contains(t, out, "  Teams - Sync")
	assert.Contains(t, out, "20m")

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	grid := report.WeekGrid{
		Start:     start,
		Rows:      []report.WeekRow{{Label: "A", Days: [7]int{1: 5400}, Total: 5400}},
		DayTotals: [7]int{1: 5400},
		Total:     5400,
	}
	week := th.Week(grid)
	assert.Contains(t, week, "Week of 2026-03-02")
	assert.Contains(t, week, "Sun")
	assert.Contains(t, week, "1.5h")
	assert.Contains(t, week, report.EmptyCell)
}

func TestRecordAndTimesheet(t *testing.T) {
	th := NewTheme("mocha")
	out := th.Record(entity.ActivityRecord{Label: "Browser: Docs", Category: entity.Browser, WindowTitle: "Docs"}, []string{"Docs"})
	assert.Contains(t, out, "Browser: Docs")
	assert.Contains(t, out, "Browser")
	assert.Contains(t, out, "Suggestions")

	ts := th.Timesheet("2026-03-02", map[string]float64{"UMB": 1.5}, []string{"UMB"})
	assert.Contains(t, ts, "1.50h")
	assert.Contains(t, th.Timesheet("2026-03-02", nil, nil), "No mapped project tags.")
}

func TestTimeline(t *testing.T) {
	th := NewTheme("mocha")
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	out := th.Timeline(
		[]report.Segment{{Label: "Slack", Start: start, End: start.Add(time.Minute), Active: false}},
		[]report.ListEntry{{Start: start, Label: "Slack", WindowTitle: "general", DurationSeconds: 60}},
		0)
	assert.Contains(t, out, "09:00:00-09:01:00")
	assert.Contains(t, out, "idle")
	assert.Contains(t, out, "general")
}

func TestTable(t *testing.T) {
	th := NewTheme("mocha")
	out := th.Table([]string{"ID", "Name"}, [][]string{{"1", "Visual Studio"}, {"22", "Teams"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, strings.Index(lines[0], "Name"), strings.Index(lines[1], "Visual Studio"))
	assert.Equal(t, strings.Index(lines[1], "Visual Studio"), strings.Index(lines[2], "Teams"))

	assert.Contains(t, th.Table([]string{"ID"}, nil), "(none)")
}
