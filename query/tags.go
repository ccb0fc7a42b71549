package query

import (
	"context"
	"encoding/json"
	"fmt"

	"activitymonitor/entity"
	"activitymonitor/rules"
)

// InsertTag adds a project tag. An empty colour gets entity.DefaultTagColor.
func (db *Database) InsertTag(ctx context.Context, tag entity.ProjectTag) (int64, error) {
	kws, err := json.Marshal(nonNil(tag.Keywords))
	if err != nil {
		return 0, fmt.Errorf("InsertTag: %w", err)
	}
	if tag.Color == "" {
		tag.Color = entity.DefaultTagColor
	}
	res, err := db.ExecContext(ctx, `INSERT INTO project_tags (name, keywords, color, enabled) VALUES (?, ?, ?, ?)`,
		tag.Name, string(kws), tag.Color, boolInt(tag.Enabled))
	if err != nil {
		return 0, fmt.Errorf("InsertTag: %w", err)
	}
	return res.LastInsertId()
}

func (db *Database) UpdateTag(ctx context.Context, tag entity.ProjectTag) error {
	kws, err := json.Marshal(nonNil(tag.Keywords))
	if err != nil {
		return fmt.Errorf("UpdateTag: %w", err)
	}
	if tag.Color == "" {
		tag.Color = entity.DefaultTagColor
	}
	res, err := db.ExecContext(ctx, `UPDATE project_tags SET name = ?, keywords = ?, color = ?, enabled = ? WHERE id = ?`,
		tag.Name, string(kws), tag.Color, boolInt(tag.Enabled), tag.ID)
	if err != nil {
		return fmt.Errorf("UpdateTag: %w", err)
	}
	return affectedOne("UpdateTag", res)
}

func (db *Database) DeleteTag(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, "DELETE FROM project_tags WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteTag: %w", err)
	}
	return affectedOne("DeleteTag", res)
}

// GetAllTags returns the raw tag rows by name. Keywords stay JSON encoded
// so a corrupt row is reported by rules.Build rather than failing the read.
func (db *Database) GetAllTags(ctx context.Context) ([]rules.TagRow, error) {
	rows := []rules.TagRow{}
	err := db.SelectContext(ctx, &rows, `SELECT id, name, keywords, color, enabled FROM project_tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("GetAllTags: %w", err)
	}
	return rows, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
