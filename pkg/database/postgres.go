package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"sports-prediction/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both the pool wrapper and pgx.Tx, so repositories
// can run the same statements inside or outside a transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PgxIface interface untuk abstraction database
type PgxIface interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// DB wrapper struct
type DB struct {
	pool *pgxpool.Pool
}

// NewDB wraps an existing pool, used by integration tests.
func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

func (db *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.pool.Query(ctx, sql, args...)
}

func (db *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.pool.QueryRow(ctx, sql, args...)
}

func (db *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return db.pool.Exec(ctx, sql, args...)
}

func (db *DB) Begin(ctx context.Context) (pgx.Tx, error) {
	return db.pool.Begin(ctx)
}

func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *DB) Close() {
	db.pool.Close()
}

// ConnString builds a postgres:// URL from config. The scheme is replaceable
// so the migrator can reuse it with its own driver name.
func ConnString(config utils.DatabaseConfig, scheme string) string {
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(config.User, config.Password),
		Host:     fmt.Sprintf("%s:%s", config.Host, config.Port),
		Path:     "/" + config.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// InitDB membuat koneksi database pool
func InitDB(config utils.DatabaseConfig) (PgxIface, error) {
	poolConfig, err := pgxpool.ParseConfig(ConnString(config, "postgres"))
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}
	poolConfig.MinConns = min(2, poolConfig.MaxConns)
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	return &DB{pool: pool}, nil
}
