package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	dsn         string
	autoMigrate bool
	pool        *pgxpool.Pool
}

func NewDB(cfg *Config) *DB {
	return &DB{dsn: cfg.DSN(), autoMigrate: cfg.AutoMigrate}
}

// NewDBFromDSN is used when a full connection string is already at hand (tests, CLI flags).
func NewDBFromDSN(dsn string, autoMigrate bool) *DB {
	return &DB{dsn: dsn, autoMigrate: autoMigrate}
}

func (d *DB) Pool() *pgxpool.Pool {
	if d.pool == nil {
		panic("db not connected, call DB.Connect() first")
	}
	return d.pool
}

// Connect connects to Postgres and optionally creates the schema.
func (d *DB) Connect(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, d.dsn)
	if err != nil {
		return fmt.Errorf("pgx connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	// Optional schema creation for local/dev environments.
	if d.autoMigrate {
		if _, err := pool.Exec(ctx, schema); err != nil {
			pool.Close()
			return fmt.Errorf("create schema resources: %w", err)
		}
	}

	d.pool = pool

	return nil
}

func (d *DB) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS user_interests (
	user_id TEXT NOT NULL,
	keyword TEXT NOT NULL,
	weight DOUBLE PRECISION NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, keyword)
);

CREATE TABLE IF NOT EXISTS user_read_counts (
	user_id TEXT PRIMARY KEY,
	read_count BIGINT NOT NULL DEFAULT 0
);
`
