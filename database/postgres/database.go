// Package postgres stores object metadata and the icon directory in PostgreSQL
// through a pgx connection pool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/iconbox"
)

type database struct {
	pool   *pgxpool.Pool
	tables iconbox.Tables
}

// Connect creates a connection pool. Tables should be validated before
// calling Connect.
func Connect(ctx context.Context, dsn string, tables iconbox.Tables) (*database, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &database{
		pool:   pool,
		tables: tables,
	}, nil
}

func (d *database) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Migrate creates the objects and icons tables if they do not exist.
func (d *database) Migrate(ctx context.Context) error {
	if err := Migrate(ctx, d.pool, d.tables); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (d *database) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.pool, d.tables)
}

func (d *database) Objects() iconbox.MetaDataRepo {
	return &objectRepo{pool: d.pool, tableName: d.tables.Objects}
}

func (d *database) Directory() iconbox.DirectoryStore {
	return &directory{pool: d.pool, tableName: d.tables.Icons}
}

// Close closes the pool. It always returns nil.
func (d *database) Close() error {
	d.pool.Close()
	return nil
}
