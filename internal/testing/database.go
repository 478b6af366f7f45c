// Package testing holds helpers shared by package tests.
package testing

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// Setup prepares a fresh test database, e.g. by running migrations.
type Setup func(*sql.DB) error

// CreateTestDB opens a private in-memory SQLite database and applies each
// setup in order. ":memory:" is per connection, so the pool holds one.
// The database is closed when the test ends.
func CreateTestDB(t *testing.T, setup ...Setup) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	for i, s := range setup {
		if err := s(db); err != nil {
			t.Fatalf("test database setup %d: %v", i, err)
		}
	}
	return db
}
