// ABOUTME: Versioned schema management using goose with embedded SQL migrations.
// ABOUTME: Reports whether the store was brand new so first-run seeding happens once.
package storage

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrate brings the schema to the latest version. fresh is true when the
// database had no schema before this call.
func (d *DB) migrate() (fresh bool, err error) {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return false, fmt.Errorf("set dialect: %w", err)
	}

	before, err := goose.GetDBVersion(d.db.DB)
	if err != nil {
		return false, fmt.Errorf("read schema version: %w", err)
	}

	if err := goose.Up(d.db.DB, "migrations"); err != nil {
		return false, fmt.Errorf("run migrations: %w", err)
	}

	return before == 0, nil
}

// SchemaVersion returns the applied migration version.
func (d *DB) SchemaVersion() (int64, error) {
	return goose.GetDBVersion(d.db.DB)
}
