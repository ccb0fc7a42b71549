package query

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	TableDatabaseVersion = "database_version"
)

// migrations[i] brings the schema from version i to version i+1.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			window_title TEXT,
			process_name TEXT,
			project_name TEXT,
			category TEXT,
			is_active INTEGER NOT NULL DEFAULT 1,
			duration_seconds INTEGER NOT NULL DEFAULT 5
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_timestamp ON activities(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_project ON activities(project_name)`,
	},
	{
		`CREATE TABLE IF NOT EXISTS project_mappings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_type TEXT NOT NULL,
			match_value TEXT NOT NULL,
			display_name TEXT NOT NULL,
			priority INTEGER NOT NULL DEFAULT 1,
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL DEFAULT (datetime('now', 'localtime'))
		)`,
	},
	{
		`ALTER TABLE activities ADD COLUMN project_tag TEXT`,
		`CREATE TABLE IF NOT EXISTS project_tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			keywords TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '#4A90D9',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL DEFAULT (datetime('now', 'localtime'))
		)`,
	},
	{
		`CREATE TABLE IF NOT EXISTS keyword_rules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			patterns TEXT NOT NULL,
			is_regex INTEGER NOT NULL DEFAULT 0,
			priority INTEGER NOT NULL DEFAULT 0,
			category TEXT NOT NULL DEFAULT '',
			enabled INTEGER NOT NULL DEFAULT 1
		)`,
	},
}

// SchemaVersion is the version Migrate brings a database to.
func SchemaVersion() int { return len(migrations) }

func (db *Database) GetDbVersion(ctx context.Context) (int, error) {
	var dbVersion int
	query := "SELECT db_version FROM database_version LIMIT 1"
	if err := db.GetContext(ctx, &dbVersion, query); err != nil {
		return 0, fmt.Errorf("GetDbVersion: %w", err)
	}
	return dbVersion, nil
}

// Migrate creates the version table on a fresh database and applies every
// pending step, each in its own transaction.
func (db *Database) Migrate(ctx context.Context) error {
	exist, err := db.TableExists(ctx, TableDatabaseVersion)
	if err != nil {
		return fmt.Errorf("Migrate: %w", err)
	}
	if !exist {
		if _, err := db.ExecContext(ctx, `CREATE TABLE database_version (db_version INTEGER DEFAULT 0)`); err != nil {
			return fmt.Errorf("Migrate: %w", err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO database_version VALUES(0)`); err != nil {
			return fmt.Errorf("Migrate: %w", err)
		}
	}

	dbVersion, err := db.GetDbVersion(ctx)
	if err != nil {
		return fmt.Errorf("Migrate: %w", err)
	}
	for v := dbVersion; v < len(migrations); v++ {
		if err := db.applyMigration(ctx, v); err != nil {
			return err
		}
		slog.Debug("database migrated", "version", v+1)
	}
	return nil
}

func (db *Database) applyMigration(ctx context.Context, v int) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Migrate version %d: %w", v+1, err)
	}
	for _, stmt := range migrations[v] {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("Migrate version %d: %w", v+1, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `UPDATE database_version SET db_version=?`, v+1); err != nil {
		tx.Rollback()
		return fmt.Errorf("Migrate version %d: %w", v+1, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Migrate version %d: error at commit: %w", v+1, err)
	}
	return nil
}
