//go:build integration
// +build integration

package test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO required)

	"github.com/coregx/sal"
)

// DatabaseSetup encapsulates database connection and cleanup.
type DatabaseSetup struct {
	DB        *sal.DB
	Container testcontainers.Container
	Dialect   string
}

// Close cleans up database resources.
func (ds *DatabaseSetup) Close() {
	if ds.DB != nil {
		ds.DB.Close() //nolint:errcheck
	}
	if ds.Container != nil {
		ds.Container.Terminate(context.Background()) //nolint:errcheck
	}
}

// SetupPostgreSQLTestDB creates a PostgreSQL test database.
// Uses testcontainers if available, falls back to env DSN.
func SetupPostgreSQLTestDB(t *testing.T) *DatabaseSetup {
	ctx := context.Background()

	// Check for manual DSN first (allows testing without Docker)
	if dsn := os.Getenv("POSTGRES_TEST_DSN"); dsn != "" {
		db, err := sal.Open("postgres", dsn)
		require.NoError(t, err)
		return &DatabaseSetup{DB: db, Dialect: "postgres"}
	}

	pgContainer, err := postgres.Run(
		ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skip("Docker not available for PostgreSQL integration tests: " + err.Error())
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sal.Open("postgres", dsn)
	require.NoError(t, err)

	return &DatabaseSetup{
		DB:        db,
		Container: pgContainer,
		Dialect:   "postgres",
	}
}

// SetupMySQLTestDB creates a MySQL test database.
// Uses testcontainers if available, falls back to env DSN.
func SetupMySQLTestDB(t *testing.T) *DatabaseSetup {
	ctx := context.Background()

	if dsn := os.Getenv("MYSQL_TEST_DSN"); dsn != "" {
		db, err := sal.Open("mysql", dsn)
		require.NoError(t, err)
		return &DatabaseSetup{DB: db, Dialect: "mysql"}
	}

	mysqlContainer, err := mysql.Run(
		ctx,
		"mysql:8.0",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("user"),
		mysql.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("port: 3306  MySQL Community Server").
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skip("Docker not available for MySQL integration tests: " + err.Error())
	}

	dsn, err := mysqlContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := sal.Open("mysql", dsn)
	require.NoError(t, err)

	return &DatabaseSetup{
		DB:        db,
		Container: mysqlContainer,
		Dialect:   "mysql",
	}
}

// SetupSQLiteTestDB creates a file-backed SQLite database.
// Always works, no external dependencies.
func SetupSQLiteTestDB(t *testing.T) *DatabaseSetup {
	db, err := sal.Open("sqlite", filepath.Join(t.TempDir(), "integration.db"))
	require.NoError(t, err)

	return &DatabaseSetup{
		DB:      db,
		Dialect: "sqlite",
	}
}

// CreateAccountsTable creates the accounts table used by the statement tests.
func CreateAccountsTable(t *testing.T, ds *DatabaseSetup) {
	var createSQL string

	switch ds.Dialect {
	case "postgres":
		createSQL = `
			CREATE TABLE IF NOT EXISTS accounts (
				id INTEGER PRIMARY KEY,
				owner VARCHAR(64) NOT NULL,
				balance BIGINT NOT NULL DEFAULT 0,
				note TEXT,
				updated_at TIMESTAMP
			)
		`
	case "mysql":
		createSQL = `
			CREATE TABLE IF NOT EXISTS accounts (
				id INT PRIMARY KEY,
				owner VARCHAR(64) NOT NULL,
				balance BIGINT NOT NULL DEFAULT 0,
				note TEXT,
				updated_at TIMESTAMP NULL
			)
		`
	case "sqlite":
		createSQL = `
			CREATE TABLE IF NOT EXISTS accounts (
				id INTEGER PRIMARY KEY,
				owner TEXT NOT NULL,
				balance INTEGER NOT NULL DEFAULT 0,
				note TEXT,
				updated_at TIMESTAMP
			)
		`
	}

	_, err := ds.DB.Exec(context.Background(), createSQL)
	require.NoError(t, err)
}

// forEachDatabase runs fn against every available database.
func forEachDatabase(t *testing.T, fn func(t *testing.T, ds *DatabaseSetup)) {
	setups := map[string]func(*testing.T) *DatabaseSetup{
		"sqlite":   SetupSQLiteTestDB,
		"postgres": SetupPostgreSQLTestDB,
		"mysql":    SetupMySQLTestDB,
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			ds := setup(t)
			defer ds.Close()

			CreateAccountsTable(t, ds)
			fn(t, ds)
		})
	}
}
