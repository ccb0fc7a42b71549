package report

import (
	"sort"
	"strings"
	"time"

	"activitymonitor/entity"
)

// Segment is a run of consecutive records with the same label and active
// flag, clipped to the requested day.
type Segment struct {
	Label  string
	Start  time.Time
	End    time.Time
	Active bool
}

// StartSec and EndSec are offsets from dayStart, for drawing a day bar.
func (s Segment) StartSec(dayStart time.Time) int { return int(s.Start.Sub(dayStart) / time.Second) }
func (s Segment) EndSec(dayStart time.Time) int { return int(s.End.Sub(dayStart) / time.Second) }

// Duration is End minus Start.
func (s Segment) Duration() time.Duration { return s.End.Sub(s.Start) }

// ListEntry is a run of consecutive records with the same label and
// window title. Active is taken from the first record of the run.
type ListEntry struct {
	Start           time.Time
	Label           string
	WindowTitle     string
	DurationSeconds int
	Active          bool
}

func sortedByTime(records []entity.ActivityRecord) []entity.ActivityRecord {
	out := make([]entity.ActivityRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Timeline merges records of the day containing day into segments.
// Records are never merged in storage; this is display coalescing only.
func Timeline(records []entity.ActivityRecord, day time.Time) []Segment {
	dayStart, dayEnd := DayRange(day)
	var segs []Segment
	for _, r := range sortedByTime(records) {
		start := r.Timestamp
		end := start.Add(time.Duration(r.DurationSeconds) * time.Second)
		if start.Before(dayStart) {
			start = dayStart
		}
		if end.After(dayEnd) {
			end = dayEnd
		}
		if !end.After(start) {
			continue
		}
		label := labelOf(r)
		if n := len(segs); n > 0 && segs[n-1].Label == label && segs[n-1].Active == r.IsActive {
			if end.After(segs[n-1].End) {
				segs[n-1].End = end
			}
			continue
		}
		segs = append(segs, Segment{Label: label, Start: start, End: end, Active: r.IsActive})
	}
	return segs
}

// ListEntries merges consecutive records with the same label and title.
// A non-empty search keeps entries whose label or title contains it,
// case-insensitively.
func ListEntries(records []entity.ActivityRecord, search string) []ListEntry {
	var out []ListEntry
	for _, r := range sortedByTime(records) {
		label := labelOf(r)
		if n := len(out); n > 0 && out[n-1].Label == label && out[n-1].WindowTitle == r.WindowTitle {
			out[n-1].DurationSeconds += r.DurationSeconds
			continue
		}
		out = append(out, ListEntry{
			Start:           r.Timestamp,
			Label:           label,
			WindowTitle:     r.WindowTitle,
			DurationSeconds: r.DurationSeconds,
			Active:          r.IsActive,
		})
	}
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return out
	}
	filtered := out[:0]
	for _, e := range out {
		if strings.Contains(strings.ToLower(e.Label), search) || strings.Contains(strings.ToLower(e.WindowTitle), search) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
