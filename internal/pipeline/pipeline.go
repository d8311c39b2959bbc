// Package pipeline joins the ratings, movies and users tables into one
// genre-expanded relation and answers the dashboard's aggregate queries over
// it. A Pipeline is immutable once built and safe for concurrent use.
package pipeline

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
	"github.com/Clark-Hu/ratings-dashboard/internal/metrics"
)

var (
	// ErrEmptyTable indicates a source table without rows.
	ErrEmptyTable = errors.New("pipeline: empty table")
	// ErrDuplicateKey indicates a repeated movie or user id.
	ErrDuplicateKey = errors.New("pipeline: duplicate key")
	// ErrInvalidRating indicates a NaN or infinite rating value.
	ErrInvalidRating = errors.New("pipeline: invalid rating")
)

// Stats summarises a build.
type Stats struct {
	Ratings  int
	Movies   int
	Users    int
	Join     JoinStats
	Expanded int
	Duration time.Duration
}

// Pipeline holds the expanded relation and memoized view results. Slices
// returned by its methods are shared and must not be modified.
type Pipeline struct {
	expanded []domain.ExpandedRecord
	stats    Stats

	byGenreYear func() []domain.GenreYearRating
	byGender    func() []domain.GenreGenderCount
	correlation func() domain.CorrMatrix
}

// Build validates the tables, derives year and genres per movie, joins and
// expands the relation. Any error means no pipeline should be served.
func Build(tables domain.Tables, logger zerolog.Logger) (*Pipeline, error) {
	start := time.Now()

	switch {
	case len(tables.Ratings) == 0:
		return nil, fmt.Errorf("ratings: %w", ErrEmptyTable)
	case len(tables.Movies) == 0:
		return nil, fmt.Errorf("movies: %w", ErrEmptyTable)
	case len(tables.Users) == 0:
		return nil, fmt.Errorf("users: %w", ErrEmptyTable)
	}

	for i, r := range tables.Ratings {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return nil, fmt.Errorf("ratings row %d: %w: %v", i+1, ErrInvalidRating, r.Value)
		}
	}

	movies := deriveMovies(tables.Movies)
	joined, joinStats, err := Join(tables.Ratings, movies, tables.Users)
	if err != nil {
		return nil, err
	}
	expanded := Explode(joined)

	p := &Pipeline{
		expanded: expanded,
		stats: Stats{
			Ratings:  len(tables.Ratings),
			Movies:   len(tables.Movies),
			Users:    len(tables.Users),
			Join:     joinStats,
			Expanded: len(expanded),
			Duration: time.Since(start),
		},
	}
	p.byGenreYear = sync.OnceValue(func() []domain.GenreYearRating { return RatingsByGenreYear(p.expanded) })
	p.byGender = sync.OnceValue(func() []domain.GenreGenderCount { return GenrePopularityByGender(p.expanded) })
	p.correlation = sync.OnceValue(func() domain.CorrMatrix { return GenreCorrelation(p.expanded) })

	metrics.PipelineBuildDuration.Observe(p.stats.Duration.Seconds())
	metrics.PipelineJoinedRows.Set(float64(joinStats.Joined))
	metrics.PipelineExpandedRows.Set(float64(len(expanded)))
	metrics.PipelineDroppedRows.WithLabelValues("missing_movie").Set(float64(joinStats.MissingMovie))
	metrics.PipelineDroppedRows.WithLabelValues("missing_user").Set(float64(joinStats.MissingUser))

	logger.Info().
		Int("ratings", p.stats.Ratings).
		Int("joined", joinStats.Joined).
		Int("expanded", p.stats.Expanded).
		Int("dropped_missing_movie", joinStats.MissingMovie).
		Int("dropped_missing_user", joinStats.MissingUser).
		Dur("duration", p.stats.Duration).
		Msg("pipeline: built")

	return p, nil
}

// Stats reports the row counts observed while building.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Expanded exposes the genre-expanded relation.
func (p *Pipeline) Expanded() []domain.ExpandedRecord {
	return p.expanded
}

// RatingsByGenreYear backs the dist_ratings view.
func (p *Pipeline) RatingsByGenreYear() []domain.GenreYearRating {
	return p.byGenreYear()
}

// GenrePopularityByGender backs the pop_genres view.
func (p *Pipeline) GenrePopularityByGender() []domain.GenreGenderCount {
	return p.byGender()
}

// GenreCorrelation backs the heatmaps view.
func (p *Pipeline) GenreCorrelation() domain.CorrMatrix {
	return p.correlation()
}
