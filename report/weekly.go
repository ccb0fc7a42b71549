package report

import (
	"fmt"
	"sort"
	"time"

	"activitymonitor/entity"
)

// EmptyCell marks a day without active time for a label.
const EmptyCell = "-"

// WeekRow holds one label's active seconds per weekday, Sunday first.
type WeekRow struct {
	Label string
	Days  [7]int
	Total int
}

// WeekGrid is the label by weekday pivot of one week of active time.
type WeekGrid struct {
	Start     time.Time
	End       time.Time
	Rows      []WeekRow
	DayTotals [7]int
	Total     int
}

// Weekly pivots the records in [start, start+7 days) into a label by
// weekday grid. Columns are indexed by time.Weekday, so Sunday is column
// 0 whatever day the range starts on. MinActivitySeconds applies to a
// row's weekly total.
func Weekly(records []entity.ActivityRecord, f Filters, start time.Time) WeekGrid {
	start, end := WeekRange(start)
	grid := WeekGrid{Start: start, End: end}

	rows := map[string]*WeekRow{}
	for _, r := range records {
		if r.Timestamp.Before(start) || !r.Timestamp.Before(end) || !f.Keep(r) {
			continue
		}
		label := labelOf(r)
		row, ok := rows[label]
		if !ok {
			row = &WeekRow{Label: label}
			rows[label] = row
		}
		if r.IsActive {
			row.Days[r.Timestamp.Weekday()] += r.DurationSeconds
			row.Total += r.DurationSeconds
		}
	}

	for _, row := range rows {
		if f.belowMinimum(row.Total) {
			continue
		}
		grid.Rows = append(grid.Rows, *row)
		for d, s := range row.Days {
			grid.DayTotals[d] += s
		}
		grid.Total += row.Total
	}
	sort.Slice(grid.Rows, func(i, j int) bool {
		if grid.Rows[i].Total != grid.Rows[j].Total {
			return grid.Rows[i].Total > grid.Rows[j].Total
		}
		return grid.Rows[i].Label < grid.Rows[j].Label
	})
	return grid
}

// WeekSummary is the weekly total per label, from the same grid.
func (g WeekGrid) WeekSummary() []Summary {
	out := make([]Summary, 0, len(g.Rows))
	for _, r := range g.Rows {
		out = append(out, Summary{Label: r.Label, ActiveSeconds: r.Total})
	}
	return out
}

// Cell renders seconds as hours with one decimal, or EmptyCell for zero.
func Cell(seconds int) string {
	if seconds <= 0 {
		return EmptyCell
	}
	return Hours(seconds)
}

// Hours renders seconds as "1.5h".
func Hours(seconds int) string {
	return fmt.Sprintf("%.1fh", float64(seconds)/3600)
}

// Weekdays returns the column headers, Sunday first.
func Weekdays() [7]string {
	var out [7]string
	for d := time.Sunday; d <= time.Saturday; d++ {
		out[d] = d.String()[:3]
	}
	return out
}
