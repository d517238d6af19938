// Package sqlite stores object metadata and the icon directory in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/iconbox"

	_ "modernc.org/sqlite" // SQLite driver
)

type database struct {
	db     *sql.DB
	tables iconbox.Tables
}

// Connect opens a SQLite database. Tables should be validated before calling
// Connect.
//
// The pool is limited to one connection: SQLite serializes writers anyway, and
// a ":memory:" DSN would otherwise give each pooled connection its own empty
// database.
func Connect(ctx context.Context, dsn string, tables iconbox.Tables) (*database, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &database{
		db:     db,
		tables: tables,
	}, nil
}

func (d *database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Migrate creates the objects and icons tables if they do not exist.
func (d *database) Migrate(ctx context.Context) error {
	if err := Migrate(ctx, d.db, d.tables); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Validate checks that both tables exist with the expected columns.
func (d *database) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.db, d.tables)
}

func (d *database) Objects() iconbox.MetaDataRepo {
	return &objectRepo{db: d.db, tableName: d.tables.Objects}
}

func (d *database) Directory() iconbox.DirectoryStore {
	return &directory{db: d.db, tableName: d.tables.Icons}
}

func (d *database) Close() error {
	return d.db.Close()
}
