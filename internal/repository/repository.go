package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
	"github.com/Clark-Hu/ratings-dashboard/internal/store"
)

// Repository aggregates the dataset table repositories.
type Repository struct {
	pool    *pgxpool.Pool
	Movies  *MoviesRepository
	Ratings *RatingsRepository
	Users   *UsersRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool:    pool,
		Movies:  &MoviesRepository{pool: pool},
		Ratings: &RatingsRepository{pool: pool},
		Users:   &UsersRepository{pool: pool},
	}
}

// ImportStats reports how many rows each table received.
type ImportStats struct {
	Ratings int64
	Movies  int64
	Users   int64
}

// Import replaces the contents of all three tables with tables in a single
// transaction.
func (r *Repository) Import(ctx context.Context, tables domain.Tables) (ImportStats, error) {
	var stats ImportStats
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE ratings, movies, users RESTART IDENTITY`); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
		var err error
		if stats.Movies, err = r.Movies.copyIn(ctx, tx, tables.Movies); err != nil {
			return err
		}
		if stats.Users, err = r.Users.copyIn(ctx, tx, tables.Users); err != nil {
			return err
		}
		if stats.Ratings, err = r.Ratings.copyIn(ctx, tx, tables.Ratings); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}
	return stats, nil
}
