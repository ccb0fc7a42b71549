// Command activitymonitor records which application and project has focus
// every few seconds and reports where the day went.
//
// Usage:
//
//	activitymonitor [--config path] [--db path] <command> [flags]
//
// Run "activitymonitor help" for the command list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"activitymonitor/config"
	"activitymonitor/query"
	"activitymonitor/view"
)

var errUsage = errors.New("usage")

// app is what every command gets: the loaded configuration and an open
// store.
type app struct {
	cfg     *config.Config
	cfgPath string
	db      *query.Database
	logger  *slog.Logger
	out     io.Writer
	errOut  io.Writer
	theme   view.Theme
}

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"run":       {"record activity until interrupted", cmdRun},
	"report":    {"show a day or week summary", cmdReport},
	"export":    {"write a day summary or timeline as CSV", cmdExport},
	"timesheet": {"show hours per time-sheet project", cmdTimesheet},
	"classify":  {"show how a process and window title would be recorded", cmdClassify},
	"relabel":   {"change the label of one stored activity", cmdRelabel},
	"mapping":   {"list or edit display-name mappings", cmdMapping},
	"tag":       {"list or edit project tags", cmdTag},
	"rule":      {"list or edit keyword rules", cmdRule},
	"prune":     {"delete activities older than keep_data_days", cmdPrune},
	"config":    {"print or write the configuration", cmdConfig},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "activitymonitor:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("activitymonitor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "config file (default: first of "+strings.Join(config.Paths(), ", ")+")")
	dbPath := fs.String("db", "", "database file, overrides database.path")
	fs.Usage = func() { usage(stderr, fs) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 || fs.Arg(0) == "help" {
		fs.Usage()
		return errUsage
	}
	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		fs.Usage()
		return errUsage
	}

	cfg, path, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	a := &app{cfg: cfg, cfgPath: path, logger: logger, out: stdout, errOut: stderr, theme: view.NewTheme(cfg.Theme)}
	if name != "config" {
		db, err := query.Open(ctx, cfg.Database.Path, cfg.Database.Driver)
		if err != nil {
			return err
		}
		defer db.Close()
		a.db = db
	}
	return cmd.run(ctx, a, fs.Args()[1:])
}

func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		return config.LoadFromDefaultPath()
	}
	cfg, err := config.Load(path)
	return cfg, path, err
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: activitymonitor [--config path] [--db path] <command> [flags]")
	fmt.Fprintln(w, "\nCommands:")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-10s %s\n", n, commands[n].summary)
	}
	fmt.Fprintln(w, "\nGlobal flags:")
	fs.PrintDefaults()
}

// subcommand returns a flag set that reports errors instead of exiting.
func (a *app) subcommand(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}
