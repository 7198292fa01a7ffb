package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bibbank/heartrisk/migrations"
	"github.com/bibbank/heartrisk/pkg/postgres"
)

// PostgresImage is the server version the integration tests run against.
const PostgresImage = "postgres:16-alpine"

// StartPostgres runs a throwaway PostgreSQL container, applies the embedded
// prediction history schema and returns a pool on it. The container and pool
// are released through t.Cleanup.
func StartPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, PostgresImage,
		tcpostgres.WithDatabase("heartrisk"),
		tcpostgres.WithUsername("heartrisk"),
		tcpostgres.WithPassword("heartrisk"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(stopCtx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}

	version, err := postgres.Migrate(url, migrations.FS)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Logf("test database at schema version %d", version)

	pool, err := postgres.Open(ctx, postgres.Config{URL: url, MaxConns: 4})
	if err != nil {
		t.Fatalf("open test pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
