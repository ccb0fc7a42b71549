package query

import (
	"context"
	"fmt"
	"time"

	"activitymonitor/entity"
)

const activityColumns = `id, timestamp,
	COALESCE(window_title, '') AS window_title,
	COALESCE(process_name, '') AS process_name,
	COALESCE(project_name, '') AS project_name,
	COALESCE(category, '') AS category,
	COALESCE(project_tag, '') AS project_tag,
	is_active, duration_seconds`

// activityRow carries the stored text timestamp next to the record.
type activityRow struct {
	entity.ActivityRecord
	Timestamp string `db:"timestamp"`
}

func (r activityRow) record() (entity.ActivityRecord, error) {
	ts, err := time.ParseInLocation(entity.TimestampLayout, r.Timestamp, time.Local)
	if err != nil {
		return entity.ActivityRecord{}, fmt.Errorf("activity %d: timestamp: %w", r.ID, err)
	}
	out := r.ActivityRecord
	out.Timestamp = ts
	return out, nil
}

// AppendActivity inserts one record and returns its id. Empty category and
// tag are stored as NULL.
func (db *Database) AppendActivity(ctx context.Context, rec entity.ActivityRecord) (int64, error) {
	res, err := db.ExecContext(ctx, `
        INSERT INTO activities
        (timestamp, window_title, process_name, project_name, category, project_tag, is_active, duration_seconds)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.In(time.Local).Format(entity.TimestampLayout),
		rec.WindowTitle,
		rec.ProcessName,
		rec.Label,
		nullable(string(rec.Category)),
		nullable(rec.ProjectTag),
		boolInt(rec.IsActive),
		rec.DurationSeconds,
	)
	if err != nil {
		return 0, fmt.Errorf("AppendActivity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("AppendActivity: %w", err)
	}
	return id, nil
}

// GetRecords returns the records with start <= timestamp < end in
// timestamp then id order.
func (db *Database) GetRecords(ctx context.Context, start, end time.Time) ([]entity.ActivityRecord, error) {
	rows := []activityRow{}
	q := `SELECT ` + activityColumns + `
	FROM activities
	WHERE timestamp >= ? AND timestamp < ?
	ORDER BY timestamp, id`
	err := db.SelectContext(ctx, &rows, q,
		start.In(time.Local).Format(entity.TimestampLayout),
		end.In(time.Local).Format(entity.TimestampLayout))
	if err != nil {
		return nil, fmt.Errorf("GetRecords: %w", err)
	}
	out := make([]entity.ActivityRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, fmt.Errorf("GetRecords: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// GetActivity returns one record by id.
func (db *Database) GetActivity(ctx context.Context, id int64) (entity.ActivityRecord, error) {
	rows := []activityRow{}
	if err := db.SelectContext(ctx, &rows, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id); err != nil {
		return entity.ActivityRecord{}, fmt.Errorf("GetActivity: %w", err)
	}
	if len(rows) == 0 {
		return entity.ActivityRecord{}, fmt.Errorf("GetActivity %d: %w", id, ErrNotFound)
	}
	return rows[0].record()
}

// UpdateActivityLabel is the manual relabel of one stored record.
func (db *Database) UpdateActivityLabel(ctx context.Context, id int64, label string) error {
	res, err := db.ExecContext(ctx, `UPDATE activities SET project_name = ? WHERE id = ?`, label, id)
	if err != nil {
		return fmt.Errorf("UpdateActivityLabel: %w", err)
	}
	return affectedOne("UpdateActivityLabel", res)
}

// DeleteActivitiesBefore removes records older than cutoff and reports how
// many went.
func (db *Database) DeleteActivitiesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM activities WHERE timestamp < ?`,
		cutoff.In(time.Local).Format(entity.TimestampLayout))
	if err != nil {
		return 0, fmt.Errorf("DeleteActivitiesBefore: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteActivitiesBefore: %w", err)
	}
	return n, nil
}

// PruneOlderThan applies the keep_data_days retention relative to now.
// Zero or negative days keep everything.
func (db *Database) PruneOlderThan(ctx context.Context, days int, now time.Time) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	y, m, d := now.In(time.Local).Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.Local).AddDate(0, 0, -days)
	return db.DeleteActivitiesBefore(ctx, cutoff)
}
