package query

import (
	"context"
	"encoding/json"
	"fmt"

	"activitymonitor/entity"
	"activitymonitor/rules"
)

func (db *Database) InsertKeywordRule(ctx context.Context, kr entity.KeywordRule) (int64, error) {
	pats, err := json.Marshal(nonNil(kr.Patterns))
	if err != nil {
		return 0, fmt.Errorf("InsertKeywordRule: %w", err)
	}
	res, err := db.ExecContext(ctx, `INSERT INTO keyword_rules (name, patterns, is_regex, priority, category, enabled)
	VALUES (?, ?, ?, ?, ?, ?)`, kr.Name, string(pats), boolInt(kr.Regex), kr.Priority, string(kr.Category), boolInt(kr.Enabled))
	if err != nil {
		return 0, fmt.Errorf("InsertKeywordRule: %w", err)
	}
	return res.LastInsertId()
}

func (db *Database) UpdateKeywordRule(ctx context.Context, kr entity.KeywordRule) error {
	pats, err := json.Marshal(nonNil(kr.Patterns))
	if err != nil {
		return fmt.Errorf("UpdateKeywordRule: %w", err)
	}
	res, err := db.ExecContext(ctx, `UPDATE keyword_rules
	SET name = ?, patterns = ?, is_regex = ?, priority = ?, category = ?, enabled = ?
	WHERE id = ?`, kr.Name, string(pats), boolInt(kr.Regex), kr.Priority, string(kr.Category), boolInt(kr.Enabled), kr.ID)
	if err != nil {
		return fmt.Errorf("UpdateKeywordRule: %w", err)
	}
	return affectedOne("UpdateKeywordRule", res)
}

func (db *Database) DeleteKeywordRule(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, "DELETE FROM keyword_rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteKeywordRule: %w", err)
	}
	return affectedOne("DeleteKeywordRule", res)
}

// GetAllKeywordRules returns the raw rule rows, highest priority first.
func (db *Database) GetAllKeywordRules(ctx context.Context) ([]rules.KeywordRuleRow, error) {
	rows := []rules.KeywordRuleRow{}
	err := db.SelectContext(ctx, &rows, `SELECT id, name, patterns, is_regex, priority, category, enabled
	FROM keyword_rules
	ORDER BY priority DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("GetAllKeywordRules: %w", err)
	}
	return rows, nil
}

// LoadRules reads the three rule tables in one transaction so a rule set
// never mixes two states of the store.
func (db *Database) LoadRules(ctx context.Context) (rules.Rows, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return rules.Rows{}, fmt.Errorf("LoadRules: %w", err)
	}
	defer tx.Rollback()

	var out rules.Rows
	if err := tx.SelectContext(ctx, &out.Keywords, `SELECT id, name, patterns, is_regex, priority, category, enabled
	FROM keyword_rules ORDER BY priority DESC, id ASC`); err != nil {
		return rules.Rows{}, fmt.Errorf("LoadRules: keyword_rules: %w", err)
	}
	if err := tx.SelectContext(ctx, &out.Mappings, `SELECT id, match_type, match_value, display_name, priority, enabled
	FROM project_mappings ORDER BY priority DESC, id ASC`); err != nil {
		return rules.Rows{}, fmt.Errorf("LoadRules: project_mappings: %w", err)
	}
	if err := tx.SelectContext(ctx, &out.Tags, `SELECT id, name, keywords, color, enabled
	FROM project_tags ORDER BY name ASC`); err != nil {
		return rules.Rows{}, fmt.Errorf("LoadRules: project_tags: %w", err)
	}
	return out, nil
}
