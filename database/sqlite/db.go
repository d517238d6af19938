package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

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
	"file_size_bytes": {"integer", false},
	"created_at":      {"text", false},
	"updated_at":      {"text", false},
}

var iconsTableSchema = map[string]columnInfo{
	"name":       {"text", false},
	"filename":   {"text", false},
	"created_at": {"text", false},
	"updated_at": {"text", false},
}

// ValidateSchema checks both tables against the columns Migrate creates.
// Extra columns are allowed.
func ValidateSchema(ctx context.Context, db *sql.DB, tables iconbox.Tables) error {
	checks := []struct {
		table  string
		schema map[string]columnInfo
	}{
		{tables.Objects, objectsTableSchema},
		{tables.Icons, iconsTableSchema},
	}

	for _, c := range checks {
		if err := validateTableSchema(ctx, db, c.table, c.schema); err != nil {
			return fmt.Errorf("validate schema %s: %w", c.table, err)
		}
	}
	return nil
}

func validateTableSchema(ctx context.Context, db *sql.DB, tableName string, expected map[string]columnInfo) error {
	if !iconbox.IsValidTableName(tableName) {
		return fmt.Errorf("invalid table name: %s", tableName)
	}

	exists, err := tableExists(ctx, db, tableName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("table %s does not exist", tableName)
	}

	actual, err := tableColumns(ctx, db, tableName)
	if err != nil {
		return err
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

func tableColumns(ctx context.Context, db *sql.DB, tableName string) (map[string]columnInfo, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdentifier(tableName)))
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns := make(map[string]columnInfo)
	for rows.Next() {
		var (
			cid      int
			name     string
			dataType string
			notNull  int
			dflt     sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns[name] = columnInfo{
			dataType:   strings.ToLower(dataType),
			isNullable: notNull == 0,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return columns, nil
}

func tableExists(ctx context.Context, db *sql.DB, tableName string) (bool, error) {
	var name string
	err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, tableName).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return true, nil
}
