package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the Postgres store for the tracker: plans, sessions with their set
// logs, the personal-record ledger, and settings. Repository methods live in
// per-entity files next to this one.
type DB struct {
	Pool *pgxpool.Pool
}

// A single-user deployment needs few connections: the HTTP surface, the MCP
// endpoint, and the report CLI together stay well under this cap.
const (
	poolMaxConns        = 8
	poolMaxConnIdleTime = 5 * time.Minute
	connectTimeout      = 10 * time.Second
)

// New connects a tuned pool to the given DSN and verifies the database is
// reachable before returning.
func New(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := poolConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func poolConfig(dsn string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}
	cfg.MaxConns = poolMaxConns
	cfg.MaxConnIdleTime = poolMaxConnIdleTime
	return cfg, nil
}

// Close releases the pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// RunMigrations brings the schema up to date from the SQL files in dir.
// An already-current schema is not an error.
func RunMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
