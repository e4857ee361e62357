// Package testing holds helpers shared by cgkit's package tests.
package testing

import (
	"database/sql"
	"testing"

	"github.com/teranos/cgkit/db"
)

// CreateTestDB opens an in-memory database with every migration applied.
// The connection is closed through t.Cleanup.
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// One connection: each new :memory: connection would be a separate database.
	conn, err := db.OpenWithMigrations(":memory:", nil)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
	})
	return conn
}
