package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/sagarc03/iconbox"
	"github.com/sagarc03/iconbox/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestDatabase_MigrateAndValidate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	assert.NoError(t, db.Ping(ctx))
	assert.NoError(t, db.Validate(ctx))

	// idempotent
	assert.NoError(t, db.Migrate(ctx))
	assert.NoError(t, db.Validate(ctx))
}

func TestDatabase_ValidateMissingTables(t *testing.T) {
	ctx := context.Background()

	db, err := sqlite.Connect(ctx, ":memory:", randomTables(t))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	err = db.Validate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestValidateSchema_ReportsMissingColumns(t *testing.T) {
	ctx := context.Background()
	tables := randomTables(t)

	raw, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	defer func() { _ = raw.Close() }()

	_, err = raw.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %q ("key" TEXT NOT NULL PRIMARY KEY)`, tables.Objects))
	require.NoError(t, err)

	err = sqlite.ValidateSchema(ctx, raw, tables)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "content_type")
}

func TestDropTables(t *testing.T) {
	ctx := context.Background()
	tables := randomTables(t)

	raw, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	defer func() { _ = raw.Close() }()

	require.NoError(t, sqlite.Migrate(ctx, raw, tables))
	require.NoError(t, sqlite.ValidateSchema(ctx, raw, tables))
	require.NoError(t, sqlite.DropTables(ctx, raw, tables))
	assert.Error(t, sqlite.ValidateSchema(ctx, raw, tables))
}

func TestObjectRepo(t *testing.T) {
	t.Run("get missing", func(t *testing.T) {
		repo := setupTestDB(t).Objects()

		_, err := repo.Get(context.Background(), "missing.png")
		assert.ErrorIs(t, err, iconbox.ErrNotFound)
	})

	t.Run("insert then replace keeps created_at", func(t *testing.T) {
		repo := setupTestDB(t).Objects()
		ctx := context.Background()

		first, inserted, err := repo.Upsert(ctx, iconbox.ObjectMeta{
			Key: "apple.png", ContentType: "image/png", Etag: "one", FileSizeBytes: 3,
		})
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.False(t, first.CreatedAt.IsZero())

		time.Sleep(5 * time.Millisecond)

		second, inserted, err := repo.Upsert(ctx, iconbox.ObjectMeta{
			Key: "apple.png", ContentType: "image/png", Etag: "two", FileSizeBytes: 4,
		})
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
		assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

		got, err := repo.Get(ctx, "apple.png")
		require.NoError(t, err)
		assert.Equal(t, "two", got.Etag)
		assert.Equal(t, int64(4), got.FileSizeBytes)
		assert.True(t, first.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("list ordered by key", func(t *testing.T) {
		repo := setupTestDB(t).Objects()
		ctx := context.Background()

		for _, k := range []string{"cherry.png", "apple.png", "Banana.png"} {
			_, _, err := repo.Upsert(ctx, iconbox.ObjectMeta{Key: k, ContentType: "image/png", Etag: k})
			require.NoError(t, err)
		}

		items, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "Banana.png", items[0].Key)
		assert.Equal(t, "apple.png", items[1].Key)
		assert.Equal(t, "cherry.png", items[2].Key)
	})

	t.Run("list empty", func(t *testing.T) {
		repo := setupTestDB(t).Objects()

		items, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestDirectory(t *testing.T) {
	t.Run("put get list", func(t *testing.T) {
		dir := setupTestDB(t).Directory()
		ctx := context.Background()

		require.NoError(t, dir.Put(ctx, "zebra", "zebra.png"))
		require.NoError(t, dir.Put(ctx, "apple", "apple.png"))

		got, err := dir.Get(ctx, "apple")
		require.NoError(t, err)
		assert.Equal(t, "apple.png", got)

		names, err := dir.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"apple", "zebra"}, names)
	})

	t.Run("put replaces", func(t *testing.T) {
		dir := setupTestDB(t).Directory()
		ctx := context.Background()

		require.NoError(t, dir.Put(ctx, "apple", "old.png"))
		require.NoError(t, dir.Put(ctx, "apple", "apple.png"))

		got, err := dir.Get(ctx, "apple")
		require.NoError(t, err)
		assert.Equal(t, "apple.png", got)

		names, err := dir.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"apple"}, names)
	})

	t.Run("get missing", func(t *testing.T) {
		dir := setupTestDB(t).Directory()

		_, err := dir.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, iconbox.ErrNotFound)
	})
}
