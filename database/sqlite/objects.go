package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sagarc03/iconbox"
)

// Timestamps are stored as RFC 3339 text in UTC.
const timeLayout = time.RFC3339Nano

type objectRepo struct {
	db        *sql.DB
	tableName string
}

func (r *objectRepo) Get(ctx context.Context, key string) (iconbox.ObjectMeta, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT "key", content_type, etag, file_size_bytes, created_at, updated_at
		FROM %s WHERE "key" = ?`, quoteIdentifier(r.tableName))

	m, err := scanObject(r.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return iconbox.ObjectMeta{}, iconbox.ErrNotFound
	}
	if err != nil {
		return iconbox.ObjectMeta{}, fmt.Errorf("get: %w", err)
	}
	return m, nil
}

func (r *objectRepo) Upsert(ctx context.Context, entry iconbox.ObjectMeta) (iconbox.ObjectMeta, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return iconbox.ObjectMeta{}, false, fmt.Errorf("upsert: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	table := quoteIdentifier(r.tableName)

	var existing string
	err = tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT created_at FROM %s WHERE "key" = ?`, table), entry.Key).Scan(&existing) //nolint:gosec // table name is validated
	inserted := errors.Is(err, sql.ErrNoRows)
	if err != nil && !inserted {
		return iconbox.ObjectMeta{}, false, fmt.Errorf("upsert: check existing: %w", err)
	}

	now := time.Now().UTC()
	createdAt := now.Format(timeLayout)
	if !inserted {
		createdAt = existing
	}

	stmt := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s ("key", content_type, etag, file_size_bytes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT ("key") DO UPDATE SET
			content_type = excluded.content_type,
			etag = excluded.etag,
			file_size_bytes = excluded.file_size_bytes,
			updated_at = excluded.updated_at`, table)

	if _, err := tx.ExecContext(ctx, stmt,
		entry.Key, entry.ContentType, entry.Etag, entry.FileSizeBytes, createdAt, now.Format(timeLayout),
	); err != nil {
		return iconbox.ObjectMeta{}, false, fmt.Errorf("upsert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return iconbox.ObjectMeta{}, false, fmt.Errorf("upsert: commit: %w", err)
	}

	entry.UpdatedAt = now
	entry.CreatedAt = now
	if !inserted {
		if entry.CreatedAt, err = time.Parse(timeLayout, existing); err != nil {
			return iconbox.ObjectMeta{}, false, fmt.Errorf("upsert: parse created_at: %w", err)
		}
	}

	return entry, inserted, nil
}

func (r *objectRepo) List(ctx context.Context) ([]iconbox.ObjectMeta, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT "key", content_type, etag, file_size_bytes, created_at, updated_at
		FROM %s ORDER BY "key"`, quoteIdentifier(r.tableName))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []iconbox.ObjectMeta{}
	for rows.Next() {
		m, err := scanObject(rows)
		if err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanObject(s scanner) (iconbox.ObjectMeta, error) {
	var (
		m                    iconbox.ObjectMeta
		createdAt, updatedAt string
	)
	if err := s.Scan(&m.Key, &m.ContentType, &m.Etag, &m.FileSizeBytes, &createdAt, &updatedAt); err != nil {
		return iconbox.ObjectMeta{}, err
	}

	var err error
	if m.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return iconbox.ObjectMeta{}, fmt.Errorf("parse created_at: %w", err)
	}
	if m.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return iconbox.ObjectMeta{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return m, nil
}
