package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
)

// RatingsRepository reads and writes the ratings table.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

var ratingColumns = []string{"user_id", "movie_id", "rating", "rated_at"}

// All returns every rating in insertion order, duplicates included.
func (r *RatingsRepository) All(ctx context.Context) ([]domain.Rating, error) {
	const query = `
        SELECT user_id, movie_id, rating, rated_at
        FROM ratings
        ORDER BY id
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	ratings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Rating, error) {
		var rt domain.Rating
		err := row.Scan(&rt.UserID, &rt.MovieID, &rt.Value, &rt.Timestamp)
		return rt, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan ratings: %w", err)
	}
	return ratings, nil
}

// Count returns the number of stored ratings.
func (r *RatingsRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ratings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ratings: %w", err)
	}
	return n, nil
}

func (r *RatingsRepository) copyIn(ctx context.Context, tx pgx.Tx, ratings []domain.Rating) (int64, error) {
	n, err := tx.CopyFrom(ctx, pgx.Identifier{"ratings"}, ratingColumns,
		pgx.CopyFromSlice(len(ratings), func(i int) ([]any, error) {
			rt := ratings[i]
			return []any{rt.UserID, rt.MovieID, rt.Value, rt.Timestamp}, nil
		}))
	if err != nil {
		return 0, fmt.Errorf("copy ratings: %w", err)
	}
	return n, nil
}
