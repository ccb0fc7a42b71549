package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"activitymonitor/entity"
)

// TimestampLayout is the stored and exported timestamp format.
const TimestampLayout = entity.TimestampLayout

// WriteSummaryCSV writes one row per label: label, active hours, duration.
func WriteSummaryCSV(w io.Writer, rows []Summary, roundingMinutes int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Project", "Active Time (hours)", "Active Time (formatted)"}); err != nil {
		return err
	}
	for _, r := range rows {
		hours := float64(RoundSeconds(r.ActiveSeconds, roundingMinutes)) / 3600
		if err := cw.Write([]string{r.Label, fmt.Sprintf("%.2f", hours), FormatDuration(r.ActiveSeconds, roundingMinutes)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTimelineCSV writes every record of the range in time order.
func WriteTimelineCSV(w io.Writer, records []entity.ActivityRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Timestamp", "Project", "Window Title", "Process", "Active", "Duration (s)"}); err != nil {
		return err
	}
	for _, r := range sortedByTime(records) {
		active := "No"
		if r.IsActive {
			active = "Yes"
		}
		row := []string{
			r.Timestamp.Format(TimestampLayout),
			labelOf(r),
			r.WindowTitle,
			r.ProcessName,
			active,
			strconv.Itoa(r.DurationSeconds),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// TimesheetHours converts tag rollups to hours per external time-sheet
// project. Tags without a mapping are skipped; several tags may feed the
// same project. Hours are rounded to two decimals.
func TimesheetHours(groups []Group, mapping map[string]string) map[string]float64 {
	out := map[string]float64{}
	for _, g := range groups {
		project, ok := mapping[g.Name]
		if !ok || project == "" {
			continue
		}
		out[project] += float64(g.ActiveSeconds) / 3600
	}
	for k, v := range out {
		out[k] = math.Round(v*100) / 100
	}
	return out
}
