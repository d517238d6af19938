package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sagarc03/iconbox"
)

// directory is the icons table as an iconbox.DirectoryStore. List is ordered
// by name.
type directory struct {
	db        *sql.DB
	tableName string
}

func (d *directory) Put(ctx context.Context, name, filename string) error {
	now := time.Now().UTC().Format(timeLayout)
	stmt := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (name, filename, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			filename = excluded.filename,
			updated_at = excluded.updated_at`, quoteIdentifier(d.tableName))

	if _, err := d.db.ExecContext(ctx, stmt, name, filename, now, now); err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	return nil
}

func (d *directory) Get(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf(`SELECT filename FROM %s WHERE name = ?`, quoteIdentifier(d.tableName)) //nolint:gosec // table name is validated

	var filename string
	err := d.db.QueryRowContext(ctx, query, name).Scan(&filename)
	if errors.Is(err, sql.ErrNoRows) {
		return "", iconbox.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", name, err)
	}
	return filename, nil
}

func (d *directory) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT name FROM %s ORDER BY name`, quoteIdentifier(d.tableName)) //nolint:gosec // table name is validated

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

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
