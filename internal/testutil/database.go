package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SetupTestDB connects to TEST_DATABASE_URL if set, otherwise spins up a
// disposable Postgres container via testcontainers and returns a pool
// pointed at it. The container (if any) is torn down via t.Cleanup.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = startPostgresContainer(t, ctx)
	}

	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err, "failed to open test database pool")

	require.NoError(t, pool.Ping(ctx), "failed to ping test database")

	t.Cleanup(pool.Close)
	return pool
}

func startPostgresContainer(t *testing.T, ctx context.Context) string {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "goap",
			"POSTGRES_PASSWORD": "goap",
			"POSTGRES_DB":       "goap_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start postgres test container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return "postgres://goap:goap@" + host + ":" + port.Port() + "/goap_test?sslmode=disable"
}

// RunCooldownMigrations creates the goal_cooldowns and goal_reports tables
// store.PostgresCooldownStore operates against.
func RunCooldownMigrations(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS goal_cooldowns (
			agent_id  TEXT NOT NULL,
			goal_name TEXT NOT NULL,
			until     TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (agent_id, goal_name)
		)
	`)
	require.NoError(t, err, "failed to create goal_cooldowns table")

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS goal_reports (
			id         BIGSERIAL PRIMARY KEY,
			agent_id   TEXT NOT NULL,
			goal       TEXT NOT NULL,
			plan       TEXT[] NOT NULL,
			cost       DOUBLE PRECISION NOT NULL,
			reason     TEXT NOT NULL,
			failures   INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	require.NoError(t, err, "failed to create goal_reports table")
}

// TruncateCooldownTables clears both tables for a fresh test state.
func TruncateCooldownTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `TRUNCATE TABLE goal_cooldowns, goal_reports`)
	require.NoError(t, err, "failed to truncate cooldown tables")
}
