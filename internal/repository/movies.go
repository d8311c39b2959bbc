package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
)

// MoviesRepository reads and writes the movies table.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

var movieColumns = []string{"movie_id", "title", "genres"}

// All returns every movie ordered by id.
func (r *MoviesRepository) All(ctx context.Context) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx, `SELECT movie_id, title, genres FROM movies ORDER BY movie_id`)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	movies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Movie, error) {
		var m domain.Movie
		err := row.Scan(&m.ID, &m.Title, &m.RawGenres)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan movies: %w", err)
	}
	return movies, nil
}

// Count returns the number of stored movies.
func (r *MoviesRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

func (r *MoviesRepository) copyIn(ctx context.Context, tx pgx.Tx, movies []domain.Movie) (int64, error) {
	n, err := tx.CopyFrom(ctx, pgx.Identifier{"movies"}, movieColumns,
		pgx.CopyFromSlice(len(movies), func(i int) ([]any, error) {
			m := movies[i]
			return []any{m.ID, m.Title, m.RawGenres}, nil
		}))
	if err != nil {
		return 0, fmt.Errorf("copy movies: %w", err)
	}
	return n, nil
}
