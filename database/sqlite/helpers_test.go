package sqlite_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/sagarc03/iconbox"
	"github.com/sagarc03/iconbox/database/sqlite"
	"github.com/stretchr/testify/require"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	require.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

func randomTables(t *testing.T) iconbox.Tables {
	t.Helper()
	suffix := getRandomString(t)
	return iconbox.Tables{
		Objects: "objects_" + suffix,
		Icons:   "icons_" + suffix,
	}
}

type testDB interface {
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Validate(ctx context.Context) error
	Objects() iconbox.MetaDataRepo
	Directory() iconbox.DirectoryStore
	Close() error
}

// setupTestDB connects to a fresh in-memory database and migrates it.
func setupTestDB(t *testing.T) testDB {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Connect(ctx, ":memory:", randomTables(t))
	require.NoError(t, err, "failed to connect")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(ctx), "failed to migrate")
	return db
}
