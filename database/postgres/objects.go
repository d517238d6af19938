package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/iconbox"
)

type objectRepo struct {
	pool      *pgxpool.Pool
	tableName string
}

func (r *objectRepo) Get(ctx context.Context, key string) (iconbox.ObjectMeta, error) {
	query := fmt.Sprintf(`
		SELECT "key", content_type, etag, file_size_bytes, created_at, updated_at
		FROM %s
		WHERE "key" = $1
	`, pgx.Identifier{r.tableName}.Sanitize())

	var m iconbox.ObjectMeta
	err := r.pool.QueryRow(ctx, query, key).Scan(
		&m.Key, &m.ContentType, &m.Etag, &m.FileSizeBytes, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return iconbox.ObjectMeta{}, iconbox.ErrNotFound
	}
	if err != nil {
		return iconbox.ObjectMeta{}, fmt.Errorf("get: %w", err)
	}

	return m, nil
}

// Upsert reports an insert through xmax, which is zero only for rows created
// by the current statement.
func (r *objectRepo) Upsert(ctx context.Context, entry iconbox.ObjectMeta) (iconbox.ObjectMeta, bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s ("key", content_type, etag, file_size_bytes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ("key") DO UPDATE
		SET content_type = EXCLUDED.content_type,
			etag = EXCLUDED.etag,
			file_size_bytes = EXCLUDED.file_size_bytes,
			updated_at = NOW()
		RETURNING "key", content_type, etag, file_size_bytes, created_at, updated_at,
			(xmax = 0) AS inserted
	`, pgx.Identifier{r.tableName}.Sanitize())

	var m iconbox.ObjectMeta
	var inserted bool

	err := r.pool.QueryRow(ctx, query, entry.Key, entry.ContentType, entry.Etag, entry.FileSizeBytes).Scan(
		&m.Key, &m.ContentType, &m.Etag, &m.FileSizeBytes, &m.CreatedAt, &m.UpdatedAt, &inserted,
	)
	if err != nil {
		return iconbox.ObjectMeta{}, false, fmt.Errorf("upsert: %w", err)
	}

	return m, inserted, nil
}

func (r *objectRepo) List(ctx context.Context) ([]iconbox.ObjectMeta, error) {
	query := fmt.Sprintf(`
		SELECT "key", content_type, etag, file_size_bytes, created_at, updated_at
		FROM %s
		ORDER BY "key" COLLATE "C"
	`, pgx.Identifier{r.tableName}.Sanitize())

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	items := []iconbox.ObjectMeta{}
	for rows.Next() {
		var m iconbox.ObjectMeta
		if err := rows.Scan(&m.Key, &m.ContentType, &m.Etag, &m.FileSizeBytes, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}

	return items, nil
}
