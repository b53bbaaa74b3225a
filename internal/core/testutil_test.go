package core

import (
	"database/sql/driver"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO required)

	"github.com/coregx/sal/internal/dialects"
)

const usersSchema = `CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT UNIQUE,
	age INTEGER,
	password TEXT,
	updated_at TEXT
)`

// setupTestDB opens a file-backed SQLite database with the users table.
// A file is used instead of :memory: so every pooled connection sees the
// same data.
func setupTestDB(t *testing.T, opts ...Option) *DB {
	t.Helper()

	db, err := Open("sqlite", filepath.Join(t.TempDir(), "test.db"), opts...)
	if err != nil {
		t.Fatalf("Failed to create test DB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.SQLDB().Exec(usersSchema); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	return db
}

// builderDB returns a DB without a connection, for statement rendering tests.
func builderDB(driver string, opts ...Option) *DB {
	return newDB(nil, driver, dialects.GetDialect(driver), opts)
}

// valuerFunc adapts a function to driver.Valuer.
type valuerFunc func() (driver.Value, error)

func (f valuerFunc) Value() (driver.Value, error) { return f() }
