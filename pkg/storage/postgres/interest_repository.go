package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/defeedco/foryou/pkg/interests"
	"github.com/jackc/pgx/v5"
)

var _ interests.Backend = (*InterestRepository)(nil)

// InterestRepository stores the interests of a single user in a shared database.
type InterestRepository struct {
	db     *DB
	userID string
}

func NewInterestRepository(db *DB, userID string) *InterestRepository {
	return &InterestRepository{db: db, userID: userID}
}

func (r *InterestRepository) Load(ctx context.Context) (interests.Map, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT keyword, weight FROM user_interests WHERE user_id = $1`,
		r.userID,
	)
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

// Save replaces the user's weights in one transaction.
func (r *InterestRepository) Save(ctx context.Context, m interests.Map) error {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_interests WHERE user_id = $1`, r.userID); err != nil {
		return fmt.Errorf("clear weights: %w", err)
	}

	if len(m) > 0 {
		rows := make([][]any, 0, len(m))
		for keyword, weight := range m {
			rows = append(rows, []any{r.userID, keyword, weight})
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"user_interests"},
			[]string{"user_id", "keyword", "weight"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy weights: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (r *InterestRepository) ReadCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.Pool().QueryRow(ctx,
		`SELECT read_count FROM user_read_counts WHERE user_id = $1`,
		r.userID,
	).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

func (r *InterestRepository) IncrementReadCount(ctx context.Context) error {
	_, err := r.db.Pool().Exec(ctx, `
		INSERT INTO user_read_counts (user_id, read_count) VALUES ($1, 1)
		ON CONFLICT (user_id) DO UPDATE SET read_count = user_read_counts.read_count + 1
	`, r.userID)
	return err
}
