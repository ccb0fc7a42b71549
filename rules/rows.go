package rules

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"activitymonitor/entity"
)

// TagRow is a project_tags row as stored, keywords still JSON encoded.
type TagRow struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Keywords string `db:"keywords"`
	Color    string `db:"color"`
	Enabled  bool   `db:"enabled"`
}

// KeywordRuleRow is a keyword_rules row as stored.
type KeywordRuleRow struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Patterns string `db:"patterns"`
	Regex    bool   `db:"is_regex"`
	Priority int    `db:"priority"`
	Category string `db:"category"`
	Enabled  bool   `db:"enabled"`
}

// Rows groups the raw rule tables read from storage.
type Rows struct {
	Keywords []KeywordRuleRow
	Mappings []entity.DisplayMapping
	Tags     []TagRow
}

// Decode turns a stored tag into an entity.ProjectTag.
func (r TagRow) Decode() (entity.ProjectTag, error) {
	var kws []string
	if err := json.Unmarshal([]byte(r.Keywords), &kws); err != nil {
		return entity.ProjectTag{}, fmt.Errorf("keywords: %w", err)
	}
	return entity.ProjectTag{ID: r.ID, Name: r.Name, Keywords: kws, Color: r.Color, Enabled: r.Enabled}, nil
}

// Decode turns a stored keyword rule into an entity.KeywordRule.
func (r KeywordRuleRow) Decode() (entity.KeywordRule, error) {
	var pats []string
	if err := json.Unmarshal([]byte(r.Patterns), &pats); err != nil {
		return entity.KeywordRule{}, fmt.Errorf("patterns: %w", err)
	}
	return entity.KeywordRule{
		ID:       r.ID,
		Name:     r.Name,
		Patterns: pats,
		Regex:    r.Regex,
		Priority: r.Priority,
		Category: entity.Category(r.Category),
		Enabled:  r.Enabled,
	}, nil
}

// Build decodes raw rows and compiles them. Rows that fail to decode are
// logged and skipped.
func Build(rows Rows, logger *slog.Logger) *RuleSet {
	if logger == nil {
		logger = slog.Default()
	}
	keywords := make([]entity.KeywordRule, 0, len(rows.Keywords))
	for _, r := range rows.Keywords {
		kr, err := r.Decode()
		if err != nil {
			logger.Warn("skipping keyword rule", "id", r.ID, "name", r.Name, "error", err)
			continue
		}
		keywords = append(keywords, kr)
	}
	tags := make([]entity.ProjectTag, 0, len(rows.Tags))
	for _, r := range rows.Tags {
		tag, err := r.Decode()
		if err != nil {
			logger.Warn("skipping project tag", "id", r.ID, "name", r.Name, "error", err)
			continue
		}
		tags = append(tags, tag)
	}
	return New(keywords, rows.Mappings, tags, logger)
}
