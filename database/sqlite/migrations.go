package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/iconbox"
)

// quoteIdentifier quotes a SQLite identifier. Names are validated by
// iconbox.IsValidTableName before they get here.
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

type TableMigration struct {
	TableName string
	Up        func(ctx context.Context, db *sql.DB) error
	Down      func(ctx context.Context, db *sql.DB) error
}

func getTableMigrations(tables iconbox.Tables) []TableMigration {
	return []TableMigration{
		{
			TableName: tables.Objects,
			Up:        createObjectsTable(tables.Objects),
			Down:      dropTable(tables.Objects),
		},
		{
			TableName: tables.Icons,
			Up:        createIconsTable(tables.Icons),
			Down:      dropTable(tables.Icons),
		},
	}
}

func Migrate(ctx context.Context, db *sql.DB, tables iconbox.Tables) error {
	for _, migration := range getTableMigrations(tables) {
		if err := migration.Up(ctx, db); err != nil {
			return fmt.Errorf("migrate up %s: %w", migration.TableName, err)
		}
	}
	return nil
}

// DropTables removes both tables in reverse creation order.
func DropTables(ctx context.Context, db *sql.DB, tables iconbox.Tables) error {
	migrations := getTableMigrations(tables)

	for i := len(migrations) - 1; i >= 0; i-- {
		if err := migrations[i].Down(ctx, db); err != nil {
			return fmt.Errorf("migrate down %s: %w", migrations[i].TableName, err)
		}
	}

	return nil
}

func createObjectsTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		stmt := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				"key" TEXT NOT NULL PRIMARY KEY,
				content_type TEXT NOT NULL,
				etag TEXT NOT NULL,
				file_size_bytes INTEGER NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)
		`, quoteIdentifier(tableName))

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create objects table: %w", err)
		}
		return nil
	}
}

func createIconsTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		stmt := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				name TEXT NOT NULL PRIMARY KEY,
				filename TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)
		`, quoteIdentifier(tableName))

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create icons table: %w", err)
		}
		return nil
	}
}

func dropTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdentifier(tableName)))
		return err
	}
}
