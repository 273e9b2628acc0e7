package sqlite

import (
	"testing"
)

// setupTestDB creates a migrated in-memory database for one test.
// Each call gets its own uniquely named shared-cache database.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open("")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}
