package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"activitymonitor/entity"
)

// ErrInvalid is returned by Validate and by Load for a config that parses
// but cannot be used.
var ErrInvalid = errors.New("invalid config")

const appDir = "activitymonitor"

// Camera holds the presence detection settings.
type Camera struct {
	Enabled              bool `yaml:"enabled"`
	CheckIntervalSeconds int  `yaml:"check_interval_seconds"`
	AwayThresholdSeconds int  `yaml:"away_threshold_seconds"`
}

// Database selects the SQLite file and driver.
type Database struct {
	Path string `yaml:"path"`

	// Driver is "sqlite" (pure Go) or "sqlite3" (cgo).
	Driver string `yaml:"driver"`
}

// Config holds the application configuration.
type Config struct {
	IdleTimeoutMinutes     int    `yaml:"idle_timeout_minutes"`
	PollingIntervalSeconds int    `yaml:"polling_interval_seconds"`
	Camera                 Camera `yaml:"camera"`

	// IDEDetection enables Visual Studio and VS Code workspace extraction.
	IDEDetection bool `yaml:"ide_detection"`

	// DefaultProject labels records stored without one in reports.
	DefaultProject string `yaml:"default_project"`
	KeepDataDays   int    `yaml:"keep_data_days"`

	// Report filters. Applied at query time, never written back to records.
	HiddenCategories       []string `yaml:"hidden_categories"`
	HiddenApps             []string `yaml:"hidden_apps"`
	MinimumActivitySeconds int      `yaml:"minimum_activity_seconds"`
	TimeRoundingMinutes    int      `yaml:"time_rounding_minutes"`

	// WeekStart is the first day of the weekly report range.
	WeekStart string `yaml:"week_start"`

	Database    Database `yaml:"database"`
	LogLevel    string   `yaml:"log_level"`
	TrayEnabled bool     `yaml:"tray_enabled"`

	// Theme is the catppuccin flavour used by the CLI (mocha, macchiato, frappe, latte).
	Theme string `yaml:"theme"`

	// TimesheetProjects maps a project tag to the external time-sheet project.
	TimesheetProjects map[string]string `yaml:"timesheet_projects"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		IdleTimeoutMinutes:     3,
		PollingIntervalSeconds: entity.DefaultQuantum,
		Camera: Camera{
			CheckIntervalSeconds: 10,
			AwayThresholdSeconds: 30,
		},
		IDEDetection:      true,
		DefaultProject:    "Uncategorized",
		KeepDataDays:      90,
		HiddenCategories:  []string{string(entity.System)},
		HiddenApps:        []string{},
		WeekStart:         "monday",
		Database:          Database{Path: DefaultDatabasePath(), Driver: "sqlite"},
		LogLevel:          "info",
		TrayEnabled:       true,
		Theme:             "mocha",
		TimesheetProjects: map[string]string{},
	}
}

// DefaultDatabasePath is activity.db in the user config directory.
func DefaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "activity.db"
	}
	return filepath.Join(dir, appDir, "activity.db")
}

// Load reads the config from a YAML file, falling back to defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", cleanPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Paths lists the default config locations in lookup order.
func Paths() []string {
	paths := []string{"config.yaml"}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, appDir, "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appDir, "config.yaml"))
	}
	return paths
}

// LoadFromDefaultPath loads the first existing file from Paths. The
// returned path is where Save should write; it is the last candidate when
// no file exists yet.
func LoadFromDefaultPath() (*Config, string, error) {
	paths := Paths()
	for _, path := range paths {
		cleanPath := filepath.Clean(path)
		if _, err := os.Stat(cleanPath); err == nil {
			cfg, err := Load(cleanPath)
			return cfg, cleanPath, err
		}
	}
	return DefaultConfig(), paths[len(paths)-1], nil
}

// Save validates the config and writes it as YAML, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.PollingIntervalSeconds <= 0 {
		errs = append(errs, fmt.Errorf("polling_interval_seconds must be positive, got %d", c.PollingIntervalSeconds))
	}
	if c.IdleTimeoutMinutes <= 0 {
		errs = append(errs, fmt.Errorf("idle_timeout_minutes must be positive, got %d", c.IdleTimeoutMinutes))
	}
	if c.MinimumActivitySeconds < 0 {
		errs = append(errs, errors.New("minimum_activity_seconds must not be negative"))
	}
	if c.TimeRoundingMinutes < 0 {
		errs = append(errs, errors.New("time_rounding_minutes must not be negative"))
	}
	if c.KeepDataDays < 0 {
		errs = append(errs, errors.New("keep_data_days must not be negative"))
	}
	if c.Camera.AwayThresholdSeconds < 0 || c.Camera.CheckIntervalSeconds < 0 {
		errs = append(errs, errors.New("camera thresholds must not be negative"))
	}
	for _, name := range c.HiddenCategories {
		if _, ok := entity.ParseCategory(name); !ok {
			errs = append(errs, fmt.Errorf("unknown hidden category %q", name))
		}
	}
	switch c.Database.Driver {
	case "sqlite", "sqlite3":
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}
	if _, ok := parseWeekday(c.WeekStart); !ok {
		errs = append(errs, fmt.Errorf("unknown week_start %q", c.WeekStart))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// IdleTimeout is the input idle threshold.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMinutes) * time.Minute
}

// PollingInterval is the tick length and the record quantum.
func (c *Config) PollingInterval() time.Duration {
	return time.Duration(c.PollingIntervalSeconds) * time.Second
}

// Categories returns HiddenCategories parsed; unknown names are dropped.
func (c *Config) Categories() []entity.Category {
	out := make([]entity.Category, 0, len(c.HiddenCategories))
	for _, name := range c.HiddenCategories {
		if cat, ok := entity.ParseCategory(name); ok {
			out = append(out, cat)
		}
	}
	return out
}

// FirstWeekday returns WeekStart as a time.Weekday, Monday when unset.
func (c *Config) FirstWeekday() time.Weekday {
	d, _ := parseWeekday(c.WeekStart)
	return d
}

func parseWeekday(s string) (time.Weekday, bool) {
	if s == "" {
		return time.Monday, true
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), s) {
			return d, true
		}
	}
	return time.Monday, false
}
