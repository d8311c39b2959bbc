package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
	"github.com/Clark-Hu/ratings-dashboard/internal/repository"
)

// PostgresSource reads the tables previously written by the import command.
type PostgresSource struct {
	repo   *repository.Repository
	logger zerolog.Logger
}

// NewPostgresSource constructs a Source over repo.
func NewPostgresSource(repo *repository.Repository, logger zerolog.Logger) *PostgresSource {
	return &PostgresSource{repo: repo, logger: logger}
}

// Load reads the three tables concurrently.
func (s *PostgresSource) Load(ctx context.Context) (domain.Tables, error) {
	start := time.Now()
	var t domain.Tables

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		t.Ratings, err = s.repo.Ratings.All(gctx)
		return err
	})
	g.Go(func() (err error) {
		t.Movies, err = s.repo.Movies.All(gctx)
		return err
	})
	g.Go(func() (err error) {
		t.Users, err = s.repo.Users.All(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Tables{}, err
	}

	switch {
	case len(t.Ratings) == 0:
		return domain.Tables{}, fmt.Errorf("%s: %w", TableRatings, ErrEmptyTable)
	case len(t.Movies) == 0:
		return domain.Tables{}, fmt.Errorf("%s: %w", TableMovies, ErrEmptyTable)
	case len(t.Users) == 0:
		return domain.Tables{}, fmt.Errorf("%s: %w", TableUsers, ErrEmptyTable)
	}

	record(s.logger, "postgres", t, time.Since(start))
	return t, nil
}
