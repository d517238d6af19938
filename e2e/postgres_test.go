package e2e_test

import (
	"context"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// postgresInstance is started on first use and shared by every test in the
// package. TestMain terminates it.
var postgresInstance struct {
	once      sync.Once
	container *pgcontainer.PostgresContainer
	dsn       string
	err       error
}

// postgresDSN returns the connection string of the shared container.
func postgresDSN(t *testing.T) string {
	t.Helper()

	postgresInstance.once.Do(func() {
		ctx := context.Background()

		container, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("iconbox"),
			pgcontainer.WithUsername("iconbox"),
			pgcontainer.WithPassword("iconbox"),
			pgcontainer.BasicWaitStrategies(),
		)
		postgresInstance.container = container
		if err != nil {
			postgresInstance.err = err
			return
		}

		postgresInstance.dsn, postgresInstance.err = container.ConnectionString(ctx, "sslmode=disable")
	})

	if postgresInstance.err != nil {
		t.Fatalf("start postgres container: %v", postgresInstance.err)
	}
	return postgresInstance.dsn
}

// stopPostgres terminates the shared container if one was started.
func stopPostgres() error {
	if postgresInstance.container == nil {
		return nil
	}
	return testcontainers.TerminateContainer(postgresInstance.container)
}
