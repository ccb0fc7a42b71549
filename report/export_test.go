package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activitymonitor/entity"
)

func TestWriteSummaryCSV(t *testing.T) {
	rows := []Summary{
		{Label: "A", ActiveSeconds: 900},
		{Label: "Browser: a, b", ActiveSeconds: 7500},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, rows, 0))
	assert.Equal(t, "Project,Active Time (hours),Active Time (formatted)\n"+
		"A,0.25,15m\n"+
		"\"Browser: a, b\",2.08,2h 5m\n", buf.String())
}

func TestWriteSummaryCSVRounds(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, []Summary{{Label: "A", ActiveSeconds: 1350}}, 15))
	assert.Equal(t, "Project,Active Time (hours),Active Time (formatted)\nA,0.50,30m\n", buf.String())
}

func TestWriteTimelineCSV(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	records := []entity.ActivityRecord{
		{ID: 2, Timestamp: base.Add(5 * time.Second), Label: "", WindowTitle: "x", ProcessName: "x.exe", IsActive: false, DurationSeconds: 5},
		{ID: 1, Timestamp: base, Label: "VS - App", WindowTitle: "a.cs - App", ProcessName: "devenv.exe", IsActive: true, DurationSeconds: 5},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTimelineCSV(&buf, records))
	assert.Equal(t, "Timestamp,Project,Window Title,Process,Active,Duration (s)\n"+
		"2026-03-02 09:00:00,VS - App,a.cs - App,devenv.exe,Yes,5\n"+
		"2026-03-02 09:00:05,Uncategorized,x,x.exe,No,5\n", buf.String())
}

func TestTimesheetHours(t *testing.T) {
	groups := []Group{
		{Name: "Umbraco", ActiveSeconds: 5400},
		{Name: "Support", ActiveSeconds: 1200},
		{Name: "Internal", ActiveSeconds: 3600},
	}
	got := TimesheetHours(groups, map[string]string{
		"Umbraco":  "PRJ-1",
		"Support":  "PRJ-1",
		"Internal": "",
	})
	assert.Equal(t, map[string]float64{"PRJ-1": 1.83}, got)
	assert.Empty(t, TimesheetHours(groups, nil))
}
