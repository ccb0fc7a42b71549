package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"activitymonitor/classify"
	"activitymonitor/config"
	"activitymonitor/entity"
	"activitymonitor/launch"
	"activitymonitor/manager"
	"activitymonitor/recorder"
	"activitymonitor/report"
)

const dateLayout = "2006-01-02"

func parseDay(s string) (time.Time, error) {
	if s == "" || s == "today" {
		return time.Now(), nil
	}
	if s == "yesterday" {
		return time.Now().AddDate(0, 0, -1), nil
	}
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad --date %q, want YYYY-MM-DD", s)
	}
	return d, nil
}

func (a *app) engine(ctx context.Context) (*report.Engine, *manager.RuleManager, error) {
	rm, err := manager.NewRuleManager(ctx, a.db, a.logger)
	if err != nil {
		return nil, nil, err
	}
	eng := report.NewEngine(a.db, rm)
	eng.DefaultProject = a.cfg.DefaultProject
	return eng, rm, nil
}

func cmdRun(ctx context.Context, a *app, args []string) error {
	fs := a.subcommand("run")
	noTray := fs.Bool("no-tray", false, "run without the tray icon")
	icon := fs.String("icon", "", "tray icon file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	seeded, err := a.db.SeedDefaultMappings(ctx)
	if err != nil {
		return err
	}
	if seeded {
		a.logger.Info("default display mappings added")
	}
	rm, err := manager.NewRuleManager(ctx, a.db, a.logger)
	if err != nil {
		return err
	}
	rec := recorder.New(a.db, rm, a.cfg.PollingIntervalSeconds, a.cfg.IDEDetection, a.logger)
	tracker := launch.NewTracker(a.cfg, rec, rm, a.db, a.logger)
	tracker.ConfigPath = a.cfgPath

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if _, err := os.Stat(a.cfgPath); err == nil {
		go func() {
			err := config.Watch(ctx, a.cfgPath, func(cfg *config.Config) {
				tracker.Apply(cfg)
				if err := rm.Reload(ctx); err != nil {
					a.logger.Error("rule reload failed", "error", err)
				}
			}, a.logger)
			if err != nil {
				a.logger.Warn("config file not watched", "path", a.cfgPath, "error", err)
			}
		}()
	}

	if *noTray || !a.cfg.TrayEnabled {
		return tracker.Run(ctx)
	}
	done := make(chan error, 1)
	go func() { done <- tracker.Run(ctx) }()
	launch.StartTray(ctx, tracker, *icon, cancel)
	cancel()
	return <-done
}

func cmdReport(ctx context.Context, a *app, args []string) error {
	fs := a.subcommand("report")
	date := fs.String("date", "", "day to report, YYYY-MM-DD, today or yesterday")
	by := fs.String("by", "flat", "flat, category, tag, week, week-summary or timeline")
	search := fs.String("search", "", "timeline: only entries whose label or title contains this")
	if err := fs.Parse(args); err != nil {
		return err
	}
	day, err := parseDay(*date)
	if err != nil {
		return err
	}
	eng, _, err := a.engine(ctx)
	if err != nil {
		return err
	}
	f := report.FiltersFromConfig(a.cfg)
	rounding := a.cfg.TimeRoundingMinutes
	label := day.Format(dateLayout)

	var out string
	switch *by {
	case "flat":
		rows, err := eng.Daily(ctx, day, f)
		if err != nil {
			return err
		}
		out = a.theme.Daily(label, rows, report.Totals(rows), rounding)
	case "category":
		groups, err := eng.DailyByCategory(ctx, day, f)
		if err != nil {
			return err
		}
		out = a.theme.Groups("Categories for "+label, groups, rounding)
	case "tag":
		groups, err := eng.DailyByTag(ctx, day, f)
		if err != nil {
			return err
		}
		out = a.theme.Groups("Project tags for "+label, groups, rounding)
	case "week":
		grid, err := eng.Weekly(ctx, report.WeekStart(day, a.cfg.FirstWeekday()), f)
		if err != nil {
			return err
		}
		out = a.theme.Week(grid)
	case "week-summary":
		start := report.WeekStart(day, a.cfg.FirstWeekday())
		rows, err := eng.WeeklySummary(ctx, start, f)
		if err != nil {
			return err
		}
		out = a.theme.Daily("week of "+start.Format(dateLayout), rows, report.Totals(rows), rounding)
	case "timeline":
		segs, list, err := eng.Timeline(ctx, day, *search)
		if err != nil {
			return err
		}
		out = a.theme.Timeline(segs, list, rounding)
	default:
		return fmt.Errorf("unknown --by %q", *by)
	}
	_, err = io.WriteString(a.out, out)
	return err
}

func cmdExport(ctx context.Context, a *app, args []string) error {
	fs := a.subcommand("export")
	date := fs.String("date", "", "day to export, YYYY-MM-DD, today or yesterday")
	kind := fs.String("kind", "summary", "summary or timeline")
	path := fs.String("out", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	day, err := parseDay(*date)
	if err != nil {
		return err
	}
	eng, _, err := a.engine(ctx)
	if err != nil {
		return err
	}

	w := a.out
	if *path != "" {
		f, err := os.Create(*path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch *kind {
	case "summary":
		rows, err := eng.Daily(ctx, day, report.FiltersFromConfig(a.cfg))
		if err != nil {
			return err
		}
		return report.WriteSummaryCSV(w, rows, a.cfg.TimeRoundingMinutes)
	case "timeline":
		recs, err := eng.Records(ctx, day)
		if err != nil {
			return err
		}
		return report.WriteTimelineCSV(w, recs)
	default:
		return fmt.Errorf("unknown --kind %q", *kind)
	}
}

func cmdTimesheet(ctx context.Context, a *app, args []string) error {
	fs := a.subcommand("timesheet")
	date := fs.String("date", "", "day, YYYY-MM-DD, today or yesterday")
	if err := fs.Parse(args); err != nil {
		return err
	}
	day, err := parseDay(*date)
	if err != nil {
		return err
	}
	eng, _, err := a.engine(ctx)
	if err != nil {
		return err
	}
	hours, err := eng.Timesheet(ctx, day, a.cfg.TimesheetProjects)
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	var projects []string
	for _, p := range a.cfg.TimesheetProjects {
		if !seen[p] {
			seen[p] = true
			projects = append(projects, p)
		}
	}
	sort.Strings(projects)
	_, err = io.WriteString(a.out, a.theme.Timesheet(day.Format(dateLayout), hours, projects))
	return err
}

func cmdClassify(ctx context.Context, a *app, args []string) error {
	fs := a.subcommand("classify")
	process := fs.String("process", "", "process executable name, e.g. devenv.exe")
	title := fs.String("title", "", "window title")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *process == "" && *title == "" {
		return errors.New("classify needs --process or --title")
	}
	eng, rm, err := a.engine(ctx)
	if err != nil {
		return err
	}
	rec := recorder.New(nil, rm, a.cfg.PollingIntervalSeconds, a.cfg.IDEDetection, a.logger).
		Preview(entity.Sample{Timestamp: time.Now(), ProcessName: *process, WindowTitle: *title})

	rows, err := eng.Daily(ctx, time.Now(), report.Filters{})
	if err != nil {
		return err
	}
	_, err = io.WriteString(a.out, a.theme.Record(rec, classify.Suggestions(*title, labels(rows))))
	return err
}

func labels(rows []report.Summary) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Label
	}
	return out
}

func cmdRelabel(ctx context.Context, a *app, args []string) error {
	fs := a.subcommand("relabel")
	id := fs.Int64("id", 0, "activity id")
	label := fs.String("label", "", "new label; without it, suggestions are printed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("relabel needs --id")
	}

	rec, err := a.db.GetActivity(ctx, *id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(*label) == "" {
		eng := report.NewEngine(a.db, nil)
		eng.DefaultProject = a.cfg.DefaultProject
		rows, err := eng.Daily(ctx, rec.Timestamp, report.Filters{})
		if err != nil {
			return err
		}
		_, err = io.WriteString(a.out, a.theme.Record(rec, classify.Suggestions(rec.WindowTitle, labels(rows))))
		return err
	}
	if err := a.db.UpdateActivityLabel(ctx, *id, strings.TrimSpace(*label)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "activity %d: %q -> %q\n", *id, rec.Label, strings.TrimSpace(*label))
	return nil
}

func cmdPrune(ctx context.Context, a *app, args []string) error {
	fs := a.subcommand("prune")
	days := fs.Int("days", a.cfg.KeepDataDays, "keep this many days; 0 keeps everything")
	if err := fs.Parse(args); err != nil {
		return err
	}
	n, err := a.db.PruneOlderThan(ctx, *days, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d activities removed\n", n)
	return nil
}

func cmdConfig(_ context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("config needs show, path or init")
	}
	switch args[0] {
	case "show":
		data, err := yaml.Marshal(a.cfg)
		if err != nil {
			return err
		}
		_, err = a.out.Write(data)
		return err
	case "path":
		fmt.Fprintln(a.out, a.cfgPath)
		return nil
	case "init":
		if _, err := os.Stat(a.cfgPath); err == nil {
			return fmt.Errorf("%s already exists", a.cfgPath)
		}
		if err := config.DefaultConfig().Save(a.cfgPath); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "wrote", a.cfgPath)
		return nil
	default:
		return fmt.Errorf("unknown config action %q", args[0])
	}
}
