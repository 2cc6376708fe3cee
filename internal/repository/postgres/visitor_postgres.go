package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/campaign-site/internal/repository"
)

// visitorRepository keeps the counter in a single row (id = 1) of visitor_counter.
type visitorRepository struct{ pool *pgxpool.Pool }

func NewVisitorRepository(pool *pgxpool.Pool) repository.VisitorRepository {
	return &visitorRepository{pool: pool}
}

// Increment is a single upsert so concurrent visits never lose an update.
func (r *visitorRepository) Increment(ctx context.Context) (int64, error) {
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	var count int64
	err := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO visitor_counter (id, count) VALUES (1, 1)
		 ON CONFLICT (id) DO UPDATE SET count = visitor_counter.count + 1, updated_at = NOW()
		 RETURNING count`,
	).Scan(&count)
	if err != nil {
		return 0, repository.MapPgError(err)
	}
	return count, nil
}

func (r *visitorRepository) Count(ctx context.Context) (int64, error) {
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	var count int64
	err := getQ(ctx, r.pool).QueryRow(ctx, `SELECT count FROM visitor_counter WHERE id = 1`).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		// nobody counted yet
		return 0, nil
	}
	if err != nil {
		return 0, repository.MapPgError(err)
	}
	return count, nil
}

func (r *visitorRepository) Reset(ctx context.Context) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	_, err := getQ(ctx, r.pool).Exec(ctx,
		`INSERT INTO visitor_counter (id, count) VALUES (1, 0)
		 ON CONFLICT (id) DO UPDATE SET count = 0, updated_at = NOW()`)
	return repository.MapPgError(err)
}

var _ repository.VisitorRepository = (*visitorRepository)(nil)
