// ABOUTME: Shared test setup for MCP tool handler tests
// ABOUTME: Provides a temp-file database per test
package handlers

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/harperreed/prm/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}
