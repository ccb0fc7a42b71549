package report

import (
	"fmt"
	"math"
	"time"
)

// RoundSeconds rounds to the nearest multiple of roundingMinutes, halves
// to even. Zero or negative rounding returns seconds unchanged.
func RoundSeconds(seconds, roundingMinutes int) int {
	if roundingMinutes <= 0 {
		return seconds
	}
	minutes := float64(seconds) / 60
	rounded := math.RoundToEven(minutes/float64(roundingMinutes)) * float64(roundingMinutes)
	return int(rounded * 60)
}

// FormatDuration renders "45s", "12m" or "2h 5m" after rounding.
func FormatDuration(seconds, roundingMinutes int) string {
	seconds = RoundSeconds(seconds, roundingMinutes)
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// DayRange is [local midnight of day, next local midnight).
func DayRange(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

// WeekRange is seven calendar days from local midnight of start.
func WeekRange(start time.Time) (time.Time, time.Time) {
	s, _ := DayRange(start)
	return s, s.AddDate(0, 0, 7)
}

// WeekStart returns local midnight of the most recent first weekday on or
// before day.
func WeekStart(day time.Time, first time.Weekday) time.Time {
	s, _ := DayRange(day)
	back := (int(s.Weekday()) - int(first) + 7) % 7
	return s.AddDate(0, 0, -back)
}
