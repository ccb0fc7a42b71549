// Package query is the SQLite store behind the tracker: the append-only
// activity log and the rule tables.
package query

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an update or delete matches no row.
var ErrNotFound = errors.New("query: not found")

// Database wraps the sqlx handle. Every method is safe for concurrent use.
type Database struct {
	*sqlx.DB
}

// NewDatabase wraps an already opened handle without migrating it.
func NewDatabase(db *sqlx.DB) *Database {
	return &Database{DB: db}
}

// Open opens or creates the database at path with the given driver
// ("sqlite" or "sqlite3") and brings the schema up to date.
func Open(ctx context.Context, path, driver string) (*Database, error) {
	if driver == "" {
		driver = "sqlite"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("Open: %w", err)
		}
	}
	dbTemp, err := sqlx.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY to the poll loop
	// while a report reads.
	dbTemp.SetMaxOpenConns(1)

	db := NewDatabase(dbTemp)
	if err := db.Migrate(ctx); err != nil {
		dbTemp.Close()
		return nil, err
	}
	return db, nil
}

// OpenMemory opens a private in-memory database, mainly for tests.
func OpenMemory(ctx context.Context) (*Database, error) {
	return Open(ctx, ":memory:", "sqlite")
}

func (db *Database) TableExists(ctx context.Context, tableName string) (bool, error) {
	query := `
		SELECT count(name)
		FROM sqlite_master
		WHERE type='table' AND name=?
	`
	var count int
	if err := db.QueryRowContext(ctx, query, tableName).Scan(&count); err != nil {
		return false, fmt.Errorf("TableExists: %w", err)
	}
	return count > 0, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullable stores "" as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func affectedOne(op string, res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
