package query

import (
	"context"
	"fmt"

	"activitymonitor/entity"
)

// defaultMappings are seeded into a database that has no mappings yet.
var defaultMappings = []entity.DisplayMapping{
	{MatchType: entity.MatchProcess, MatchValue: "devenv.exe", DisplayName: "Visual Studio", Priority: 10},
	{MatchType: entity.MatchProcess, MatchValue: "Code.exe", DisplayName: "VS Code", Priority: 10},
	{MatchType: entity.MatchProcess, MatchValue: "code", DisplayName: "VS Code", Priority: 10},
	{MatchType: entity.MatchProcess, MatchValue: "chrome.exe", DisplayName: "Chrome", Priority: 5},
	{MatchType: entity.MatchProcess, MatchValue: "firefox.exe", DisplayName: "Firefox", Priority: 5},
	{MatchType: entity.MatchProcess, MatchValue: "msedge.exe", DisplayName: "Edge", Priority: 5},
	{MatchType: entity.MatchProcess, MatchValue: "OUTLOOK.EXE", DisplayName: "Outlook", Priority: 5},
	{MatchType: entity.MatchProcess, MatchValue: "Teams.exe", DisplayName: "Teams", Priority: 5},
	{MatchType: entity.MatchProcess, MatchValue: "slack.exe", DisplayName: "Slack", Priority: 5},
	{MatchType: entity.MatchProcess, MatchValue: "WINWORD.EXE", DisplayName: "Word", Priority: 5},
	{MatchType: entity.MatchProcess, MatchValue: "EXCEL.EXE", DisplayName: "Excel", Priority: 5},
	{MatchType: entity.MatchProcess, MatchValue: "POWERPNT.EXE", DisplayName: "PowerPoint", Priority: 5},
	{MatchType: entity.MatchProcess, MatchValue: "notepad.exe", DisplayName: "Notepad", Priority: 3},
	{MatchType: entity.MatchProcess, MatchValue: "explorer.exe", DisplayName: "Explorer", Priority: 3},
}

// InsertMapping adds a display mapping and returns its id.
func (db *Database) InsertMapping(ctx context.Context, m entity.DisplayMapping) (int64, error) {
	if _, err := entity.ParseMatchType(string(m.MatchType)); err != nil {
		return 0, fmt.Errorf("InsertMapping: %w", err)
	}
	res, err := db.ExecContext(ctx, `INSERT INTO project_mappings (match_type, match_value, display_name, priority, enabled)
	VALUES (?, ?, ?, ?, ?)`, string(m.MatchType), m.MatchValue, m.DisplayName, m.Priority, boolInt(m.Enabled))
	if err != nil {
		return 0, fmt.Errorf("InsertMapping: %w", err)
	}
	return res.LastInsertId()
}

// UpdateMapping rewrites every field of the mapping with m.ID.
func (db *Database) UpdateMapping(ctx context.Context, m entity.DisplayMapping) error {
	if _, err := entity.ParseMatchType(string(m.MatchType)); err != nil {
		return fmt.Errorf("UpdateMapping: %w", err)
	}
	res, err := db.ExecContext(ctx, `UPDATE project_mappings
	SET match_type = ?, match_value = ?, display_name = ?, priority = ?, enabled = ?
	WHERE id = ?`, string(m.MatchType), m.MatchValue, m.DisplayName, m.Priority, boolInt(m.Enabled), m.ID)
	if err != nil {
		return fmt.Errorf("UpdateMapping: %w", err)
	}
	return affectedOne("UpdateMapping", res)
}

func (db *Database) DeleteMapping(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, "DELETE FROM project_mappings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteMapping: %w", err)
	}
	return affectedOne("DeleteMapping", res)
}

// GetAllMappings returns every mapping, enabled or not, highest priority
// first.
func (db *Database) GetAllMappings(ctx context.Context) ([]entity.DisplayMapping, error) {
	rows := []entity.DisplayMapping{}
	err := db.SelectContext(ctx, &rows, `SELECT id, match_type, match_value, display_name, priority, enabled
	FROM project_mappings
	ORDER BY priority DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("GetAllMappings: %w", err)
	}
	return rows, nil
}

// SeedDefaultMappings inserts the stock process mappings when the table is
// empty and reports whether it did.
func (db *Database) SeedDefaultMappings(ctx context.Context) (bool, error) {
	var exist bool
	if err := db.GetContext(ctx, &exist, "SELECT EXISTS(SELECT 1 FROM project_mappings)"); err != nil {
		return false, fmt.Errorf("SeedDefaultMappings: %w", err)
	}
	if exist {
		return false, nil
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("SeedDefaultMappings: %w", err)
	}
	for _, m := range defaultMappings {
		_, err := tx.ExecContext(ctx, `INSERT INTO project_mappings (match_type, match_value, display_name, priority, enabled)
		VALUES (?, ?, ?, ?, 1)`, string(m.MatchType), m.MatchValue, m.DisplayName, m.Priority)
		if err != nil {
			tx.Rollback()
			return false, fmt.Errorf("SeedDefaultMappings: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("SeedDefaultMappings: %w", err)
	}
	return true, nil
}
