package testutil

import (
	"context"
	"testing"
	"time"

	"sports-prediction/pkg/database"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// SetupTestDB starts a throwaway Postgres, applies the embedded migrations
// and returns a pool wrapped the same way the server wraps it.
func SetupTestDB(t *testing.T) database.PgxIface {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("predictions_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(connStr, zap.NewNop()))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return database.NewDB(pool)
}

// SetupTestRedis starts a throwaway Redis and returns a connected client.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate redis container: %v", err)
		}
	})

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	cli := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = cli.Close() })
	require.NoError(t, cli.Ping(ctx).Err())

	return cli
}

// TruncateAll empties every table between subtests sharing one container.
func TruncateAll(t *testing.T, db database.PgxIface) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`TRUNCATE sessions, activation_codes, predictions, users CASCADE`)
	require.NoError(t, err)
}
