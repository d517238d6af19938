package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/iconbox"
)

// directory is the icons table as an iconbox.DirectoryStore. List is ordered
// by name using byte order, matching the sqlite and memory backends.
type directory struct {
	pool      *pgxpool.Pool
	tableName string
}

func (d *directory) Put(ctx context.Context, name, filename string) error {
	stmt := fmt.Sprintf(`
		INSERT INTO %s (name, filename)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
		SET filename = EXCLUDED.filename,
			updated_at = NOW()
	`, pgx.Identifier{d.tableName}.Sanitize())

	if _, err := d.pool.Exec(ctx, stmt, name, filename); err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	return nil
}

func (d *directory) Get(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf(`SELECT filename FROM %s WHERE name = $1`, pgx.Identifier{d.tableName}.Sanitize())

	var filename string
	err := d.pool.QueryRow(ctx, query, name).Scan(&filename)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", iconbox.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", name, err)
	}
	return filename, nil
}

func (d *directory) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT name FROM %s ORDER BY name COLLATE "C"`, pgx.Identifier{d.tableName}.Sanitize())

	rows, err := d.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}
	return names, nil
}
