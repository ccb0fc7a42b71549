package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"activitymonitor/entity"
	"activitymonitor/manager"
	"activitymonitor/query"
	"activitymonitor/rules"
)

// ruleAction splits "mapping add --flag ..." into the action and its flags
// and loads the rule manager the edit goes through.
func (a *app) ruleAction(ctx context.Context, what string, args []string) (string, []string, *manager.RuleManager, error) {
	if len(args) == 0 {
		return "", nil, nil, fmt.Errorf("%s needs list, add, update or remove", what)
	}
	rm, err := manager.NewRuleManager(ctx, a.db, a.logger)
	if err != nil {
		return "", nil, nil, err
	}
	return args[0], args[1:], rm, nil
}

// setFlags reports which flags were given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (a *app) removed(what string, id int64) error {
	fmt.Fprintf(a.out, "%s %d removed\n", what, id)
	return nil
}

func cmdMapping(ctx context.Context, a *app, args []string) error {
	action, args, rm, err := a.ruleAction(ctx, "mapping", args)
	if err != nil {
		return err
	}

	fs := a.subcommand("mapping " + action)
	id := fs.Int64("id", 0, "mapping id (update, remove)")
	matchType := fs.String("type", string(entity.MatchProcess), "process, project or window")
	value := fs.String("value", "", "text to match, case-insensitive")
	name := fs.String("name", "", "display name")
	priority := fs.Int("priority", 0, "higher wins")
	disabled := fs.Bool("disabled", false, "store the mapping disabled")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch action {
	case "list":
		all, err := a.db.GetAllMappings(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, len(all))
		for i, m := range all {
			rows[i] = []string{strconv.FormatInt(m.ID, 10), string(m.MatchType), m.MatchValue, m.DisplayName, strconv.Itoa(m.Priority), yesNo(m.Enabled)}
		}
		_, err = io.WriteString(a.out, a.theme.Table([]string{"ID", "Type", "Match", "Display name", "Priority", "Enabled"}, rows))
		return err

	case "add":
		mt, err := entity.ParseMatchType(*matchType)
		if err != nil {
			return err
		}
		if *value == "" || *name == "" {
			return errors.New("mapping add needs --value and --name")
		}
		newID, err := rm.AddMapping(ctx, entity.DisplayMapping{
			MatchType: mt, MatchValue: *value, DisplayName: *name, Priority: *priority, Enabled: !*disabled,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "mapping %d added\n", newID)
		return nil

	case "update":
		all, err := a.db.GetAllMappings(ctx)
		if err != nil {
			return err
		}
		m, ok := findByID(all, *id, func(m entity.DisplayMapping) int64 { return m.ID })
		if !ok {
			return fmt.Errorf("mapping %d: %w", *id, query.ErrNotFound)
		}
		set := setFlags(fs)
		if set["type"] {
			if m.MatchType, err = entity.ParseMatchType(*matchType); err != nil {
				return err
			}
		}
		if set["value"] {
			m.MatchValue = *value
		}
		if set["name"] {
			m.DisplayName = *name
		}
		if set["priority"] {
			m.Priority = *priority
		}
		if set["disabled"] {
			m.Enabled = !*disabled
		}
		if err := rm.UpdateMapping(ctx, m); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "mapping %d updated\n", m.ID)
		return nil

	case "remove":
		if err := rm.RemoveMapping(ctx, *id); err != nil {
			return err
		}
		return a.removed("mapping", *id)
	}
	return fmt.Errorf("unknown mapping action %q", action)
}

func cmdTag(ctx context.Context, a *app, args []string) error {
	action, args, rm, err := a.ruleAction(ctx, "tag", args)
	if err != nil {
		return err
	}

	fs := a.subcommand("tag " + action)
	id := fs.Int64("id", 0, "tag id (update, remove)")
	name := fs.String("name", "", "tag name")
	keywords := fs.String("keywords", "", "comma-separated keywords matched in process name or title")
	color := fs.String("color", "", "hex colour, default "+entity.DefaultTagColor)
	disabled := fs.Bool("disabled", false, "store the tag disabled")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch action {
	case "list":
		all, err := a.db.GetAllTags(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(all))
		for _, r := range all {
			kws := r.Keywords
			if tag, err := r.Decode(); err == nil {
				kws = strings.Join(tag.Keywords, ", ")
			}
			rows = append(rows, []string{strconv.FormatInt(r.ID, 10), r.Name, kws, r.Color, yesNo(r.Enabled)})
		}
		_, err = io.WriteString(a.out, a.theme.Table([]string{"ID", "Name", "Keywords", "Colour", "Enabled"}, rows))
		return err

	case "add":
		if *name == "" {
			return errors.New("tag add needs --name")
		}
		newID, err := rm.AddTag(ctx, entity.ProjectTag{
			Name: *name, Keywords: splitList(*keywords), Color: *color, Enabled: !*disabled,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "tag %d added\n", newID)
		return nil

	case "update":
		all, err := a.db.GetAllTags(ctx)
		if err != nil {
			return err
		}
		row, ok := findByID(all, *id, func(r rules.TagRow) int64 { return r.ID })
		if !ok {
			return fmt.Errorf("tag %d: %w", *id, query.ErrNotFound)
		}
		tag, err := row.Decode()
		if err != nil {
			// A corrupt keyword list is replaced rather than kept.
			tag = entity.ProjectTag{ID: row.ID, Name: row.Name, Color: row.Color, Enabled: row.Enabled}
		}
		set := setFlags(fs)
		if set["name"] {
			tag.Name = *name
		}
		if set["keywords"] {
			tag.Keywords = splitList(*keywords)
		}
		if set["color"] {
			tag.Color = *color
		}
		if set["disabled"] {
			tag.Enabled = !*disabled
		}
		if err := rm.UpdateTag(ctx, tag); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "tag %d updated\n", tag.ID)
		return nil

	case "remove":
		if err := rm.RemoveTag(ctx, *id); err != nil {
			return err
		}
		return a.removed("tag", *id)
	}
	return fmt.Errorf("unknown tag action %q", action)
}

func cmdRule(ctx context.Context, a *app, args []string) error {
	action, args, rm, err := a.ruleAction(ctx, "rule", args)
	if err != nil {
		return err
	}

	fs := a.subcommand("rule " + action)
	id := fs.Int64("id", 0, "rule id (update, remove)")
	name := fs.String("name", "", "label given to matching activity")
	patterns := fs.String("patterns", "", "comma-separated substrings, or regular expressions with --regex")
	regex := fs.Bool("regex", false, "treat patterns as regular expressions")
	priority := fs.Int("priority", 0, "higher is tried first")
	category := fs.String("category", "", "category of matching activity (default Other)")
	disabled := fs.Bool("disabled", false, "store the rule disabled")
	if err := fs.Parse(args); err != nil {
		return err
	}

	parseCategory := func() (entity.Category, error) {
		if *category == "" {
			return "", nil
		}
		c, ok := entity.ParseCategory(*category)
		if !ok {
			return "", fmt.Errorf("unknown category %q", *category)
		}
		return c, nil
	}

	switch action {
	case "list":
		all, err := a.db.GetAllKeywordRules(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(all))
		for _, r := range all {
			pats := r.Patterns
			if kr, err := r.Decode(); err == nil {
				pats = strings.Join(kr.Patterns, ", ")
			}
			rows = append(rows, []string{strconv.FormatInt(r.ID, 10), r.Name, pats, yesNo(r.Regex), strconv.Itoa(r.Priority), r.Category, yesNo(r.Enabled)})
		}
		_, err = io.WriteString(a.out, a.theme.Table([]string{"ID", "Name", "Patterns", "Regex", "Priority", "Category", "Enabled"}, rows))
		return err

	case "add":
		if *name == "" || *patterns == "" {
			return errors.New("rule add needs --name and --patterns")
		}
		cat, err := parseCategory()
		if err != nil {
			return err
		}
		newID, err := rm.AddKeywordRule(ctx, entity.KeywordRule{
			Name: *name, Patterns: splitList(*patterns), Regex: *regex, Priority: *priority, Category: cat, Enabled: !*disabled,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "rule %d added\n", newID)
		return nil

	case "update":
		all, err := a.db.GetAllKeywordRules(ctx)
		if err != nil {
			return err
		}
		row, ok := findByID(all, *id, func(r rules.KeywordRuleRow) int64 { return r.ID })
		if !ok {
			return fmt.Errorf("rule %d: %w", *id, query.ErrNotFound)
		}
		kr, err := row.Decode()
		if err != nil {
			kr = entity.KeywordRule{ID: row.ID, Name: row.Name, Regex: row.Regex, Priority: row.Priority, Category: entity.Category(row.Category), Enabled: row.Enabled}
		}
		set := setFlags(fs)
		if set["name"] {
			kr.Name = *name
		}
		if set["patterns"] {
			kr.Patterns = splitList(*patterns)
		}
		if set["regex"] {
			kr.Regex = *regex
		}
		if set["priority"] {
			kr.Priority = *priority
		}
		if set["category"] {
			if kr.Category, err = parseCategory(); err != nil {
				return err
			}
		}
		if set["disabled"] {
			kr.Enabled = !*disabled
		}
		if err := rm.UpdateKeywordRule(ctx, kr); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "rule %d updated\n", kr.ID)
		return nil

	case "remove":
		if err := rm.RemoveKeywordRule(ctx, *id); err != nil {
			return err
		}
		return a.removed("rule", *id)
	}
	return fmt.Errorf("unknown rule action %q", action)
}

func findByID[T any](items []T, id int64, key func(T) int64) (T, bool) {
	for _, it := range items {
		if key(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}
