package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"
	"github.com/taskplanner/planner-api/internal/platform/postgres"
)

// Environment variables naming the integration backends.
const (
	PostgresURLEnv = "PLANNER_TEST_POSTGRES_URL"
	MongoURLEnv    = "PLANNER_TEST_MONGO_URL"
)

// TestTimeout bounds connection setup and migrations.
const TestTimeout = 30 * time.Second

// PostgresURL returns the Postgres URL for tests, skipping t when unset.
func PostgresURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv(PostgresURLEnv)
	if url == "" {
		t.Skipf("%s not set - skipping integration test", PostgresURLEnv)
	}
	return url
}

// MongoURL returns the MongoDB URL for tests, skipping t when unset.
func MongoURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv(MongoURLEnv)
	if url == "" {
		t.Skipf("%s not set - skipping integration test", MongoURLEnv)
	}
	return url
}

// OpenPostgres connects to the test database and applies the embedded
// migrations. The connection is closed when the test ends.
func OpenPostgres(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", PostgresURL(t))
	require.NoError(t, err, "Failed to open database connection")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	require.NoError(t, db.PingContext(ctx), "Database connection failed")
	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateUp, nil), "Failed to run migrations")
	return db
}

// WithTx executes fn within a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		// sql.ErrTxDone is expected if fn already ended the transaction
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
