package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/defeedco/foryou/pkg/interests"
)

const readCountCounter = "read_count"

var _ interests.Backend = (*InterestRepository)(nil)

type InterestRepository struct {
	db *DB
}

func NewInterestRepository(db *DB) *InterestRepository {
	return &InterestRepository{db: db}
}

func (r *InterestRepository) Load(ctx context.Context) (interests.Map, error) {
	rows, err := r.db.conn.QueryContext(ctx, `SELECT keyword, weight FROM interest_weights`)
	if err != nil {
		return nil, fmt.Errorf("query weights: %w", err)
	}
	defer rows.Close()

	m := make(interests.Map)
	for rows.Next() {
		var keyword string
		var weight float64
		if err := rows.Scan(&keyword, &weight); err != nil {
			return nil, fmt.Errorf("scan weight: %w", err)
		}
		m[keyword] = weight
	}

	return m, rows.Err()
}

// Save replaces every stored weight in one transaction.
func (r *InterestRepository) Save(ctx context.Context, m interests.Map) error {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM interest_weights`); err != nil {
		return fmt.Errorf("clear weights: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO interest_weights (keyword, weight) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for keyword, weight := range m {
		if _, err := stmt.ExecContext(ctx, keyword, weight); err != nil {
			return fmt.Errorf("insert weight %s: %w", keyword, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (r *InterestRepository) ReadCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.conn.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = ?`, readCountCounter).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

func (r *InterestRepository) IncrementReadCount(ctx context.Context) error {
	query := `
	INSERT INTO counters (name, value) VALUES (?, 1)
	ON CONFLICT(name) DO UPDATE SET value = value + 1
	`
	_, err := r.db.conn.ExecContext(ctx, query, readCountCounter)
	return err
}
