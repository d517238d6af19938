package postgres_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/iconbox"
	"github.com/sagarc03/iconbox/database/postgres"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	testPool     *pgxpool.Pool
	testPoolOnce sync.Once
	testPoolErr  error
	testCleanup  func()
)

func TestMain(m *testing.M) {
	code := m.Run()
	if testCleanup != nil {
		testCleanup()
	}
	os.Exit(code)
}

// getSharedTestDatabase starts one postgres container for the whole package.
// Tests are skipped in -short mode.
func getSharedTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	testPoolOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("testdb"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			testPoolErr = fmt.Errorf("start postgres container: %w", err)
			return
		}

		testCleanup = func() {
			if testPool != nil {
				testPool.Close()
			}
			_ = testcontainers.TerminateContainer(pgContainer)
		}

		dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			testPoolErr = fmt.Errorf("connection string: %w", err)
			return
		}

		testPool, testPoolErr = pgxpool.New(ctx, dsn)
	})

	require.NoError(t, testPoolErr)
	return testPool
}

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

// setupTestDB migrates a fresh pair of uniquely named tables and drops them
// when the test ends.
func setupTestDB(t *testing.T) testDB {
	t.Helper()
	pool := getSharedTestDatabase(t)
	ctx := context.Background()
	tables := randomTables(t)

	db, err := postgres.Connect(ctx, pool.Config().ConnString(), tables)
	require.NoError(t, err, "failed to connect")
	require.NoError(t, db.Migrate(ctx), "failed to migrate")

	t.Cleanup(func() {
		_ = postgres.DropTables(ctx, pool, tables)
		_ = db.Close()
	})

	return db
}
