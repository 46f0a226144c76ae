package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type Config struct {
	Path string `env:"SQLITE_PATH,default=./foryou.db"`
}

// DB is the device-local database holding a single user's interests.
type DB struct {
	conn *sql.DB
}

// NewDB opens (or creates) the database file and initializes the schema.
func NewDB(ctx context.Context, cfg *Config) (*DB, error) {
	conn, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection serializes writers and avoids SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.initSchema(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS interest_weights (
		keyword TEXT PRIMARY KEY,
		weight REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS counters (
		name TEXT PRIMARY KEY,
		value INTEGER NOT NULL DEFAULT 0
	);
	`

	_, err := db.conn.ExecContext(ctx, schema)
	return err
}
