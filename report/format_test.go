package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds, rounding int
		want              string
	}{
		{0, 0, "0s"},
		{45, 0, "45s"},
		{720, 0, "12m"},
		{3600, 0, "1h 0m"},
		{7500, 0, "2h 5m"},
		{1350, 15, "30m"},
		{450, 15, "0s"},
		{3000, 30, "1h 0m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.seconds, tt.rounding), "%d/%d", tt.seconds, tt.rounding)
	}
}

func TestRoundSeconds(t *testing.T) {
	assert.Equal(t, 1234, RoundSeconds(1234, 0))
	assert.Equal(t, 0, RoundSeconds(450, 15), "7.5 minutes rounds half to even")
	assert.Equal(t, 1800, RoundSeconds(1350, 15), "22.5 minutes rounds half to even")
	assert.Equal(t, 900, RoundSeconds(600, 15))
}

func TestRanges(t *testing.T) {
	start, end := DayRange(time.Date(2026, 3, 2, 17, 30, 0, 0, time.Local))
	assert.Equal(t, at(2026, 3, 2, 0), start)
	assert.Equal(t, at(2026, 3, 3, 0), end)

	ws, we := WeekRange(at(2026, 3, 2, 8))
	assert.Equal(t, at(2026, 3, 2, 0), ws)
	assert.Equal(t, at(2026, 3, 9, 0), we)
}

func TestWeekStart(t *testing.T) {
	wed := at(2026, 3, 4, 14)
	assert.Equal(t, at(2026, 3, 2, 0), WeekStart(wed, time.Monday))
	assert.Equal(t, at(2026, 3, 1, 0), WeekStart(wed, time.Sunday))
	assert.Equal(t, at(2026, 3, 2, 0), WeekStart(at(2026, 3, 2, 1), time.Monday))
	assert.Equal(t, at(2026, 3, 2, 0), WeekStart(at(2026, 3, 8, 23), time.Monday))
}
