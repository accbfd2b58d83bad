// Package testing holds helpers shared by the integration tests.
package testing

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/tabload/internal/db"
	"github.com/vvka-141/tabload/internal/files/filesystem"
	"github.com/vvka-141/tabload/internal/logging"
	"github.com/vvka-141/tabload/internal/services"
	"github.com/vvka-141/tabload/internal/tabular"
	"github.com/vvka-141/tabload/internal/testinfra"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// ConnEnvVar names the variable holding an existing test database.
const ConnEnvVar = "TABLOAD_TEST_CONN"

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		container, err := testinfra.StartPostgres(context.Background())
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: TABLOAD_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv(ConnEnvVar); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", ConnEnvVar, err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString for convenience.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// NewTestLoader returns a Loader reading from the OS filesystem and
// connecting through the real connector factory.
func NewTestLoader(t *testing.T) tabload.Loader {
	t.Helper()

	logger := logging.NewNullLogger()
	return services.NewLoadService(
		db.NewConnectorFactory(logger),
		tabular.NewReader(filesystem.NewOSFileSystem()),
		logger,
	)
}

// PostgresConfig parses connString into a PostgreSQL ConnectionConfig.
func PostgresConfig(t *testing.T, connString string) tabload.ConnectionConfig {
	t.Helper()

	cfg, err := db.ParseConnectionString(connString)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}
	return *cfg
}

// UniqueTableName returns a fresh table name and drops the table when the
// test completes.
func UniqueTableName(t *testing.T, connString string) string {
	t.Helper()

	name := "t_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	t.Cleanup(func() {
		ctx := context.Background()
		conn, err := pgx.Connect(ctx, connString)
		if err != nil {
			t.Logf("Warning: Failed to connect for cleanup: %v", err)
			return
		}
		defer conn.Close(ctx)
		if _, err := conn.Exec(ctx, "DROP TABLE IF EXISTS "+pgx.Identifier{name}.Sanitize()); err != nil {
			t.Logf("Warning: Failed to drop table %s: %v", name, err)
		}
	})
	return name
}

// GetTestPool creates a connection pool for assertions.
// The pool is automatically closed when the test completes.
func GetTestPool(t *testing.T, connString string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, connString, table string) int {
	t.Helper()

	var n int
	err := GetTestPool(t, connString).
		QueryRow(context.Background(), "SELECT COUNT(*) FROM "+pgx.Identifier{table}.Sanitize()).
		Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return n
}
