package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/iconbox"
)

type columnInfo struct {
	dataType   string
	isNullable bool
}

var objectsTableSchema = map[string]columnInfo{
	"key":             {"text", false},
	"content_type":    {"text", false},
	"etag":            {"text", false},
	"file_size_bytes": {"bigint", false},
	"created_at":      {"timestamp with time zone", false},
	"updated_at":      {"timestamp with time zone", false},
}

var iconsTableSchema = map[string]columnInfo{
	"name":       {"text", false},
	"filename":   {"text", false},
	"created_at": {"timestamp with time zone", false},
	"updated_at": {"timestamp with time zone", false},
}

// ValidateSchema checks both tables in the public schema against the columns
// Migrate creates. Extra columns are allowed.
func ValidateSchema(ctx context.Context, pool *pgxpool.Pool, tables iconbox.Tables) error {
	checks := []struct {
		table  string
		schema map[string]columnInfo
	}{
		{tables.Objects, objectsTableSchema},
		{tables.Icons, iconsTableSchema},
	}

	for _, c := range checks {
		if err := validateTableSchema(ctx, pool, c.table, c.schema); err != nil {
			return fmt.Errorf("validate schema %s: %w", c.table, err)
		}
	}
	return nil
}

func validateTableSchema(ctx context.Context, pool *pgxpool.Pool, tableName string, expected map[string]columnInfo) error {
	if !iconbox.IsValidTableName(tableName) {
		return fmt.Errorf("invalid table name: %s", tableName)
	}

	exists, err := tableExists(ctx, pool, tableName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("table %s does not exist", tableName)
	}

	rows, err := pool.Query(ctx, `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
	`, tableName)
	if err != nil {
		return fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	actual := make(map[string]columnInfo)
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return fmt.Errorf("scan column: %w", err)
		}
		actual[name] = columnInfo{
			dataType:   strings.ToLower(dataType),
			isNullable: nullable == "YES",
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	var missing, mismatched []string
	for name, want := range expected {
		got, ok := actual[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		if got.dataType != want.dataType {
			mismatched = append(mismatched, fmt.Sprintf("%s: expected %s, got %s", name, want.dataType, got.dataType))
		}
		if got.isNullable != want.isNullable {
			mismatched = append(mismatched, fmt.Sprintf("%s: expected nullable=%v, got nullable=%v", name, want.isNullable, got.isNullable))
		}
	}

	if len(missing) == 0 && len(mismatched) == 0 {
		return nil
	}

	slices.Sort(missing)
	slices.Sort(mismatched)

	var msg strings.Builder
	fmt.Fprintf(&msg, "table %s schema validation failed:\n", tableName)
	if len(missing) > 0 {
		fmt.Fprintf(&msg, "  missing columns: %s\n", strings.Join(missing, ", "))
	}
	if len(mismatched) > 0 {
		msg.WriteString("  mismatched columns:\n")
		for _, m := range mismatched {
			fmt.Fprintf(&msg, "    - %s\n", m)
		}
	}
	return errors.New(msg.String())
}

func tableExists(ctx context.Context, pool *pgxpool.Pool, tableName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`, tableName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return exists, nil
}
