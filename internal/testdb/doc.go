// Package testdb provides helpers for integration tests against real
// backends.
//
// Tests that need Postgres or MongoDB call OpenPostgres or MongoURL, which
// skip the test unless the matching environment variable is set:
//
//   - PLANNER_TEST_POSTGRES_URL: Postgres connection string
//   - PLANNER_TEST_MONGO_URL: MongoDB connection string
//
// Postgres tests run inside WithTx so every change is rolled back and tests
// can run in parallel without truncating tables.
//
//	func TestStore(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.OpenPostgres(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        tasks := postgres.NewPostgresTaskStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
