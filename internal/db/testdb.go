package db

import (
	"database/sql"
	"testing"
)

// NewTestDB opens an in-memory SQLite database with the item and username
// tables created, closed automatically when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := EnsureSchema(database); err != nil {
		database.Close()
		t.Fatalf("creating test schema: %v", err)
	}

	t.Cleanup(func() { database.Close() })

	return database
}
