//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPelotonWithMySQL tests the archive commands with a MySQL backend.
func TestPelotonWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "peloton",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/peloton", host, port.Port())
	runArchiveRoundTrip(t, "mysql", connStr)
}

// TestPelotonWithPostgres tests the archive commands with a PostgreSQL backend.
func TestPelotonWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runArchiveRoundTrip(t, "postgresql", connStr)
}

// runArchiveRoundTrip pushes the demo portal to the backend, wipes it and pulls it back.
func runArchiveRoundTrip(t *testing.T, backend, connStr string) {
	t.Helper()
	dir := t.TempDir()
	env := []string{
		"PELOTON_ARCHIVE_BACKEND=" + backend,
		"PELOTON_ARCHIVE_DB_CONNECT=" + connStr,
	}
	run := func(args ...string) string {
		t.Helper()
		out, err := runPeloton(t, dir, env, args...)
		require.NoError(t, err)
		return out
	}

	run("archive", "clear")
	run("archive", "migrate", "--target-version", "1")
	run("archive", "migrate")

	run("demo", "--save")
	run("points", "record", "1")
	before, err := os.ReadFile(filepath.Join(dir, "portal.json"))
	require.NoError(t, err)

	run("archive", "push")
	status := run("archive", "status")
	assert.Contains(t, status, "Schema Version: 2")
	assert.Contains(t, status, "Connected: true")

	// A second push replaces the first copy
	run("archive", "push")

	run("erase")
	run("archive", "pull")
	after, err := os.ReadFile(filepath.Join(dir, "portal.json"))
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))

	run("archive", "clear")
}
