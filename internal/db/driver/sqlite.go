package driver

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLite open modes for URI filenames.
const (
	SQLiteModeReadWrite       = "rw"
	SQLiteModeReadWriteCreate = "rwc"
)

// SQLiteDriver implements the Driver interface for SQLite.
type SQLiteDriver struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite driver.
func NewSQLite() *SQLiteDriver {
	return &SQLiteDriver{}
}

// Open opens a SQLite database. dsn is a plain path, ":memory:", or a
// file: URI built with SQLiteURI.
func (d *SQLiteDriver) Open(dsn string) error {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}

	// One connection: pragmas are per-connection and :memory: databases
	// are per-connection too.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		_ = db.Close()
		return fmt.Errorf("set pragmas: %w", err)
	}

	d.db = db
	return nil
}

// Close closes the database connection.
func (d *SQLiteDriver) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// ApplySchema runs a schema script.
func (d *SQLiteDriver) ApplySchema(ctx context.Context, script string) error {
	return applyScript(ctx, d.db, script)
}

// Dialect returns the SQLite dialect identifier.
func (d *SQLiteDriver) Dialect() Dialect {
	return DialectSQLite
}

// DriverName returns the registered database/sql driver name.
func (d *SQLiteDriver) DriverName() string {
	return "sqlite"
}

// DB returns the underlying sql.DB for advanced operations.
func (d *SQLiteDriver) DB() *sql.DB {
	return d.db
}

var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// SQLiteURI builds a file: URI for path with the given open mode, so an
// existing database can be opened without creating a new one.
// e.g. SQLiteURI("/home/me/.todo/todo.db", "rw") = "file:/home/me/.todo/todo.db?mode=rw"
func SQLiteURI(path, mode string) string {
	return "file:" + uriEscaper.Replace(path) + "?mode=" + mode
}
