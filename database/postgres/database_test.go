package postgres_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/sagarc03/iconbox"
	"github.com/sagarc03/iconbox/database/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase_MigrateAndValidate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	assert.NoError(t, db.Ping(ctx))
	assert.NoError(t, db.Validate(ctx))
	assert.NoError(t, db.Migrate(ctx), "migrate should be idempotent")
}

func TestValidateSchema_WrongColumnType(t *testing.T) {
	pool := getSharedTestDatabase(t)
	ctx := context.Background()
	tables := randomTables(t)
	t.Cleanup(func() { _ = postgres.DropTables(ctx, pool, tables) })

	require.NoError(t, postgres.Migrate(ctx, pool, tables))

	_, err := pool.Exec(ctx, fmt.Sprintf(
		`ALTER TABLE %s ALTER COLUMN file_size_bytes TYPE INTEGER`,
		pgx.Identifier{tables.Objects}.Sanitize(),
	))
	require.NoError(t, err)

	err = postgres.ValidateSchema(ctx, pool, tables)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file_size_bytes: expected bigint, got integer")
}

func TestValidateSchema_MissingTable(t *testing.T) {
	pool := getSharedTestDatabase(t)

	err := postgres.ValidateSchema(context.Background(), pool, randomTables(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestObjectRepo(t *testing.T) {
	t.Run("insert then replace", func(t *testing.T) {
		repo := setupTestDB(t).Objects()
		ctx := context.Background()

		first, inserted, err := repo.Upsert(ctx, iconbox.ObjectMeta{
			Key: "apple.png", ContentType: "image/png", Etag: "one", FileSizeBytes: 3,
		})
		require.NoError(t, err)
		assert.True(t, inserted)

		second, inserted, err := repo.Upsert(ctx, iconbox.ObjectMeta{
			Key: "apple.png", ContentType: "image/png", Etag: "two", FileSizeBytes: 4,
		})
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

		got, err := repo.Get(ctx, "apple.png")
		require.NoError(t, err)
		assert.Equal(t, "two", got.Etag)
		assert.Equal(t, int64(4), got.FileSizeBytes)
	})

	t.Run("get missing", func(t *testing.T) {
		repo := setupTestDB(t).Objects()

		_, err := repo.Get(context.Background(), "missing.png")
		assert.ErrorIs(t, err, iconbox.ErrNotFound)
	})

	t.Run("list in byte order", func(t *testing.T) {
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
}

func TestDirectory(t *testing.T) {
	t.Run("put replaces and lists", func(t *testing.T) {
		dir := setupTestDB(t).Directory()
		ctx := context.Background()

		require.NoError(t, dir.Put(ctx, "zebra", "zebra.png"))
		require.NoError(t, dir.Put(ctx, "apple", "old.png"))
		require.NoError(t, dir.Put(ctx, "apple", "apple.png"))

		got, err := dir.Get(ctx, "apple")
		require.NoError(t, err)
		assert.Equal(t, "apple.png", got)

		names, err := dir.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"apple", "zebra"}, names)
	})

	t.Run("get missing", func(t *testing.T) {
		dir := setupTestDB(t).Directory()

		_, err := dir.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, iconbox.ErrNotFound)
	})
}
