package entity

import "time"

// DefaultQuantum is the number of seconds one sample stands for when the
// polling interval is not configured.
const DefaultQuantum = 5

// TimestampLayout is the local wall-clock format records are stored and
// exported in.
const TimestampLayout = "2006-01-02 15:04:05"

// ActivityRecord is one poll tick as stored in the activity log.
// Category and ProjectTag use the empty string for "not set".
type ActivityRecord struct {
	ID              int64     `db:"id" json:"id"`
	Timestamp       time.Time `db:"-" json:"timestamp"`
	WindowTitle     string    `db:"window_title" json:"window_title"`
	ProcessName     string    `db:"process_name" json:"process_name"`
	Label           string    `db:"project_name" json:"label"`
	Category        Category  `db:"category" json:"category,omitempty"`
	ProjectTag      string    `db:"project_tag" json:"project_tag,omitempty"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	DurationSeconds int       `db:"duration_seconds" json:"duration_seconds"`
}

// Sample is what the poller hands over on each tick.
type Sample struct {
	Timestamp   time.Time
	ProcessName string
	WindowTitle string
	IsIdle      bool
	CameraAway  bool
}
