// Package db provides database persistence for todo.
//
// A single database holds the todos table:
//   - SQLite (default): ~/.todo/todo.db, created with its schema on first use
//   - PostgreSQL: optional, selected with database.driver = postgres
package db

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	"github.com/randalmurphal/todo/internal/db/driver"
	"github.com/randalmurphal/todo/internal/util"
)

//go:embed schema/*.sql
var schemaFS embed.FS

const memoryDSN = ":memory:"

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// DB wraps a database connection with driver abstraction.
type DB struct {
	driver driver.Driver
	x      *sqlx.DB
	path   string
}

// Open opens the SQLite database at path. If no file exists there, the
// parent directory and file are created and the schema is initialized.
// An existing file is opened read-write as is.
func Open(path string) (*DB, error) {
	return OpenWithDialect(path, driver.DialectSQLite)
}

// OpenInMemory opens an in-memory SQLite database with the schema applied.
// Each call creates a new isolated database.
func OpenInMemory() (*DB, error) {
	return open(memoryDSN, memoryDSN, driver.DialectSQLite, true)
}

// OpenWithDialect opens a database with a specific dialect.
// For SQLite, dsn is the file path. For PostgreSQL, dsn is the connection
// string and the (idempotent) schema is always applied.
func OpenWithDialect(dsn string, dialect driver.Dialect) (*DB, error) {
	if dialect != driver.DialectSQLite {
		return open(dsn, dsn, dialect, true)
	}
	if dsn == memoryDSN {
		return OpenInMemory()
	}

	exists, err := util.Exists(dsn)
	if err != nil {
		return nil, fmt.Errorf("stat db file: %w", err)
	}
	fresh := !exists
	if fresh {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	mode := driver.SQLiteModeReadWrite
	if fresh {
		mode = driver.SQLiteModeReadWriteCreate
	}
	return open(dsn, driver.SQLiteURI(dsn, mode), dialect, fresh)
}

func open(path, dsn string, dialect driver.Dialect, initSchema bool) (*DB, error) {
	drv, err := driver.New(dialect)
	if err != nil {
		return nil, err
	}

	if err := drv.Open(dsn); err != nil {
		return nil, err
	}

	d := &DB{
		driver: drv,
		x:      sqlx.NewDb(drv.DB(), drv.DriverName()),
		path:   path,
	}

	if initSchema {
		if err := d.initSchema(context.Background()); err != nil {
			_ = drv.Close()
			return nil, err
		}
	}

	slog.Debug("database opened", "dialect", dialect, "path", path, "schema_initialized", initSchema)
	return d, nil
}

// initSchema creates the todos table for the current dialect.
func (d *DB) initSchema(ctx context.Context) error {
	name := fmt.Sprintf("schema/%s_todo.sql", d.driver.Dialect())
	script, err := schemaFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read schema %s: %w", name, err)
	}
	if err := d.driver.ApplySchema(ctx, string(script)); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.driver.Close()
}

// Path returns the database DSN/path.
func (d *DB) Path() string {
	return d.path
}

// Driver returns the underlying driver for dialect-specific operations.
func (d *DB) Driver() driver.Driver {
	return d.driver
}

// Dialect returns the database dialect.
func (d *DB) Dialect() driver.Dialect {
	return d.driver.Dialect()
}

// X returns the sqlx handle used for struct scanning.
func (d *DB) X() *sqlx.DB {
	return d.x
}
