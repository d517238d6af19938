package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/iconbox"
)

// Migrate creates the objects and icons tables if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables iconbox.Tables) error {
	if err := createObjectsTable(ctx, pool, tables.Objects); err != nil {
		return err
	}
	return createIconsTable(ctx, pool, tables.Icons)
}

func createObjectsTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	stmt := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			"key" TEXT PRIMARY KEY,
			content_type TEXT NOT NULL,
			etag TEXT NOT NULL,
			file_size_bytes BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`, pgx.Identifier{tableName}.Sanitize())

	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create objects table: %w", err)
	}
	return nil
}

func createIconsTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	stmt := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`, pgx.Identifier{tableName}.Sanitize())

	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create icons table: %w", err)
	}
	return nil
}

// DropTables removes both tables.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables iconbox.Tables) error {
	for _, name := range []string{tables.Icons, tables.Objects} {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{name}.Sanitize())); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}
