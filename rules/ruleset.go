// Package rules holds the user-editable rule sets consulted on every
// sample: keyword rules for the classifier, display mappings for the
// remapper and project tags.
//
// A RuleSet is immutable once built. Reloading means building a new one
// and swapping the pointer held by the caller.
package rules

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"activitymonitor/entity"
)

// RuleSet is a compiled, ordered snapshot of all rules.
// The zero value and nil are both valid empty rule sets.
type RuleSet struct {
	keywords []keywordRule
	mappings map[entity.MatchType][]entity.DisplayMapping
	tags     []entity.ProjectTag
	colors   map[string]string
}

type keywordRule struct {
	rule     entity.KeywordRule
	lowered  []string
	patterns []*regexp.Regexp
}

// Empty returns a RuleSet without any rule.
func Empty() *RuleSet { return &RuleSet{} }

// New compiles the given rules. Disabled rules are dropped; invalid ones
// are logged and skipped so one bad rule never disables the rest.
func New(keywords []entity.KeywordRule, mappings []entity.DisplayMapping, tags []entity.ProjectTag, logger *slog.Logger) *RuleSet {
	if logger == nil {
		logger = slog.Default()
	}
	rs := &RuleSet{
		mappings: make(map[entity.MatchType][]entity.DisplayMapping, 3),
		colors:   make(map[string]string, len(tags)),
	}

	for _, kr := range keywords {
		if !kr.Enabled {
			continue
		}
		compiled, err := compileKeywordRule(kr)
		if err != nil {
			logger.Warn("skipping keyword rule", "id", kr.ID, "name", kr.Name, "error", err)
			continue
		}
		rs.keywords = append(rs.keywords, compiled)
	}
	sort.SliceStable(rs.keywords, func(i, j int) bool {
		a, b := rs.keywords[i].rule, rs.keywords[j].rule
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.ID < b.ID
	})

	for _, m := range mappings {
		if !m.Enabled {
			continue
		}
		if err := validateMapping(m); err != nil {
			logger.Warn("skipping display mapping", "id", m.ID, "error", err)
			continue
		}
		rs.mappings[m.MatchType] = append(rs.mappings[m.MatchType], m)
	}
	for t := range rs.mappings {
		list := rs.mappings[t]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Priority != list[j].Priority {
				return list[i].Priority > list[j].Priority
			}
			return list[i].ID < list[j].ID
		})
	}

	for _, tag := range tags {
		name := strings.TrimSpace(tag.Name)
		if name == "" {
			logger.Warn("skipping project tag", "id", tag.ID, "error", "empty name")
			continue
		}
		color := tag.Color
		if color == "" {
			color = entity.DefaultTagColor
		}
		rs.colors[name] = color
		if !tag.Enabled {
			continue
		}
		kws := nonEmpty(tag.Keywords)
		if len(kws) == 0 {
			logger.Warn("skipping project tag", "id", tag.ID, "name", name, "error", "no keywords")
			continue
		}
		rs.tags = append(rs.tags, entity.ProjectTag{
			ID: tag.ID, Name: name, Keywords: kws, Color: color, Enabled: true,
		})
	}
	sort.SliceStable(rs.tags, func(i, j int) bool { return rs.tags[i].Name < rs.tags[j].Name })

	return rs
}

func compileKeywordRule(kr entity.KeywordRule) (keywordRule, error) {
	if strings.TrimSpace(kr.Name) == "" {
		return keywordRule{}, fmt.Errorf("empty name")
	}
	pats := nonEmpty(kr.Patterns)
	if len(pats) == 0 {
		return keywordRule{}, fmt.Errorf("no patterns")
	}
	if kr.Category != "" {
		if _, ok := entity.ParseCategory(string(kr.Category)); !ok {
			return keywordRule{}, fmt.Errorf("unknown category %q", kr.Category)
		}
	}
	out := keywordRule{rule: kr}
	out.rule.Patterns = pats
	if kr.Regex {
		for _, p := range pats {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return keywordRule{}, fmt.Errorf("pattern %q: %w", p, err)
			}
			out.patterns = append(out.patterns, re)
		}
		return out, nil
	}
	for _, p := range pats {
		out.lowered = append(out.lowered, strings.ToLower(p))
	}
	return out, nil
}

func validateMapping(m entity.DisplayMapping) error {
	if _, err := entity.ParseMatchType(string(m.MatchType)); err != nil {
		return err
	}
	if strings.TrimSpace(m.MatchValue) == "" {
		return fmt.Errorf("empty match value")
	}
	if strings.TrimSpace(m.DisplayName) == "" {
		return fmt.Errorf("empty display name")
	}
	return nil
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// MatchKeyword returns the first keyword rule matching the process name
// or the window title, in descending priority.
func (rs *RuleSet) MatchKeyword(processName, windowTitle string) (entity.KeywordRule, bool) {
	if rs == nil {
		return entity.KeywordRule{}, false
	}
	proc := strings.ToLower(processName)
	title := strings.ToLower(windowTitle)
	for _, kr := range rs.keywords {
		if kr.matches(processName, windowTitle, proc, title) {
			return kr.rule, true
		}
	}
	return entity.KeywordRule{}, false
}

func (kr keywordRule) matches(proc, title, procLower, titleLower string) bool {
	for _, re := range kr.patterns {
		if re.MatchString(proc) || re.MatchString(title) {
			return true
		}
	}
	for _, p := range kr.lowered {
		if strings.Contains(procLower, p) || strings.Contains(titleLower, p) {
			return true
		}
	}
	return false
}

// Mappings returns the enabled mappings of one type, highest priority first.
func (rs *RuleSet) Mappings(t entity.MatchType) []entity.DisplayMapping {
	if rs == nil {
		return nil
	}
	return rs.mappings[t]
}

// Tags returns the enabled tags in matching order.
func (rs *RuleSet) Tags() []entity.ProjectTag {
	if rs == nil {
		return nil
	}
	return rs.tags
}

// TagColor returns the colour of a tag, including disabled ones.
func (rs *RuleSet) TagColor(name string) string {
	if rs == nil {
		return ""
	}
	return rs.colors[name]
}


// KeywordRuleCount reports how many keyword rules survived compilation.
func (rs *RuleSet) KeywordRuleCount() int {
	if rs == nil {
		return 0
	}
	return len(rs.keywords)
}
