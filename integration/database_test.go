//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestStorecheckWithMySQL tests the storecheck CLI with MySQL drafts and history.
func TestStorecheckWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "storecheck",
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

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/storecheck?parseTime=true", host, port.Port())
	env := []string{
		"STORECHECK_DRAFT_BACKEND=mysql",
		"STORECHECK_DRAFT_DB_CONNECT=" + connStr,
		"STORECHECK_HISTORY_BACKEND=mysql",
		"STORECHECK_HISTORY_DB_CONNECT=" + connStr,
	}

	runAuditFlow(t, env)
	runMigrations(t, env)
}

// TestStorecheckWithPostgres tests the storecheck CLI with PostgreSQL drafts and history.
func TestStorecheckWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
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
	env := []string{
		"STORECHECK_DRAFT_BACKEND=postgresql",
		"STORECHECK_DRAFT_DB_CONNECT=" + connStr,
		"STORECHECK_HISTORY_BACKEND=postgresql",
		"STORECHECK_HISTORY_DB_CONNECT=" + connStr,
	}

	runAuditFlow(t, env)
	runMigrations(t, env)
}

// runMigrations rolls the history schema back to empty and up to latest again.
func runMigrations(t *testing.T, env []string) {
	t.Helper()
	env = append(env, "HOME="+t.TempDir())
	mustRun(t, env, "history", "clear")
	mustRun(t, env, "history", "migrate")
	mustRun(t, env, "history", "migrate", "--target-version", "0")
	mustRun(t, env, "history", "migrate")
	out := mustRun(t, env, "history", "status")
	require.Contains(t, out, "Total Submissions: 0")
}
