package report

import (
	"context"
	"fmt"
	"time"

	"activitymonitor/entity"
	"activitymonitor/rules"
)

// RecordSource reads stored records with start <= timestamp < end.
type RecordSource interface {
	GetRecords(ctx context.Context, start, end time.Time) ([]entity.ActivityRecord, error)
}

// RuleSource supplies tag colours for the tag view.
type RuleSource interface {
	Rules() *rules.RuleSet
}

// Engine fetches a range and runs the pure aggregations over it. It keeps
// no state between calls.
type Engine struct {
	// DefaultProject labels records stored without one. Empty falls back
	// to Uncategorized.
	DefaultProject string

	source RecordSource
	rules  RuleSource
}

// NewEngine returns an Engine. rs may be nil, in which case every tag uses
// DefaultTagColor.
func NewEngine(source RecordSource, rs RuleSource) *Engine {
	return &Engine{source: source, rules: rs}
}

// Records returns the raw records of the day containing day.
func (e *Engine) Records(ctx context.Context, day time.Time) ([]entity.ActivityRecord, error) {
	start, end := DayRange(day)
	return e.fetch(ctx, start, end)
}

func (e *Engine) fetch(ctx context.Context, start, end time.Time) ([]entity.ActivityRecord, error) {
	recs, err := e.source.GetRecords(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch records %s..%s: %w", start.Format(TimestampLayout), end.Format(TimestampLayout), err)
	}
	if e.DefaultProject != "" {
		for i := range recs {
			if recs[i].Label == "" {
				recs[i].Label = e.DefaultProject
			}
		}
	}
	return recs, nil
}

// Daily is Flat over one day.
func (e *Engine) Daily(ctx context.Context, day time.Time, f Filters) ([]Summary, error) {
	recs, err := e.Records(ctx, day)
	if err != nil {
		return nil, err
	}
	return Flat(recs, f), nil
}

// DailyByCategory is ByCategory over one day.
func (e *Engine) DailyByCategory(ctx context.Context, day time.Time, f Filters) ([]Group, error) {
	recs, err := e.Records(ctx, day)
	if err != nil {
		return nil, err
	}
	return ByCategory(recs, f), nil
}

// DailyByTag is ByTag over one day, coloured from the current rules.
func (e *Engine) DailyByTag(ctx context.Context, day time.Time, f Filters) ([]Group, error) {
	recs, err := e.Records(ctx, day)
	if err != nil {
		return nil, err
	}
	var colorOf func(string) string
	if e.rules != nil {
		colorOf = e.rules.Rules().TagColor
	}
	return ByTag(recs, f, colorOf), nil
}

// Weekly is the weekday grid of the seven days from start.
func (e *Engine) Weekly(ctx context.Context, start time.Time, f Filters) (WeekGrid, error) {
	from, to := WeekRange(start)
	recs, err := e.fetch(ctx, from, to)
	if err != nil {
		return WeekGrid{}, err
	}
	return Weekly(recs, f, from), nil
}

// WeeklySummary is the per-label total of the week from start.
func (e *Engine) WeeklySummary(ctx context.Context, start time.Time, f Filters) ([]Summary, error) {
	grid, err := e.Weekly(ctx, start, f)
	if err != nil {
		return nil, err
	}
	return grid.WeekSummary(), nil
}

// Timeline returns the day's segments and list entries.
func (e *Engine) Timeline(ctx context.Context, day time.Time, search string) ([]Segment, []ListEntry, error) {
	recs, err := e.Records(ctx, day)
	if err != nil {
		return nil, nil, err
	}
	return Timeline(recs, day), ListEntries(recs, search), nil
}

// Timesheet returns hours per external project for one day.
func (e *Engine) Timesheet(ctx context.Context, day time.Time, mapping map[string]string) (map[string]float64, error) {
	groups, err := e.DailyByTag(ctx, day, Filters{})
	if err != nil {
		return nil, err
	}
	return TimesheetHours(groups, mapping), nil
}
