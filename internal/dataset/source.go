// Package dataset loads the ratings, movies and users tables from files, a
// remote dataset host, or postgres.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
	"github.com/Clark-Hu/ratings-dashboard/internal/metrics"
	"github.com/Clark-Hu/ratings-dashboard/internal/remote"
)

// Source produces the three typed tables. Implementations either return all
// three non-empty tables or an error.
type Source interface {
	Load(ctx context.Context) (domain.Tables, error)
}

type openFunc func(ctx context.Context, name string) (io.ReadCloser, error)

// StreamSource parses table files obtained from an opener.
type StreamSource struct {
	kind      string
	open      openFunc
	preflight func(ctx context.Context, names []string) error
	format    Format
	logger    zerolog.Logger
}

// NewFileSource reads <table><ext> files from dir.
func NewFileSource(dir string, format Format, logger zerolog.Logger) *StreamSource {
	return &StreamSource{
		kind: "files",
		open: func(_ context.Context, name string) (io.ReadCloser, error) {
			return os.Open(filepath.Join(dir, name))
		},
		format: format,
		logger: logger,
	}
}

// NewRemoteSource fetches <table><ext> files through client. When client is
// also a remote.Lister, the host's manifest is checked for all three files
// before any download starts.
func NewRemoteSource(client remote.Client, format Format, logger zerolog.Logger) *StreamSource {
	s := &StreamSource{
		kind:   "http",
		open:   client.Fetch,
		format: format,
		logger: logger,
	}
	if lister, ok := client.(remote.Lister); ok {
		s.preflight = func(ctx context.Context, names []string) error {
			return checkManifest(ctx, lister, names, logger)
		}
	}
	return s
}

func checkManifest(ctx context.Context, lister remote.Lister, names []string, logger zerolog.Logger) error {
	m, err := lister.Manifest(ctx)
	if errors.Is(err, remote.ErrNotFound) {
		logger.Debug().Msg("dataset: host publishes no manifest, skipping check")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	for _, name := range names {
		if !m.Has(name) {
			return fmt.Errorf("%s not listed by host: %w", name, remote.ErrNotFound)
		}
	}
	return nil
}

// Load reads the three tables concurrently. The first failure cancels the
// remaining reads.
func (s *StreamSource) Load(ctx context.Context) (domain.Tables, error) {
	start := time.Now()
	var t domain.Tables

	if s.preflight != nil {
		names := []string{
			s.format.FileName(TableRatings),
			s.format.FileName(TableMovies),
			s.format.FileName(TableUsers),
		}
		if err := s.preflight(ctx, names); err != nil {
			return domain.Tables{}, err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.read(gctx, TableRatings, func(r io.Reader) (err error) {
			t.Ratings, err = ReadRatings(r, s.format)
			return err
		})
	})
	g.Go(func() error {
		return s.read(gctx, TableMovies, func(r io.Reader) (err error) {
			t.Movies, err = ReadMovies(r, s.format)
			return err
		})
	})
	g.Go(func() error {
		return s.read(gctx, TableUsers, func(r io.Reader) (err error) {
			t.Users, err = ReadUsers(r, s.format)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return domain.Tables{}, err
	}

	record(s.logger, s.kind, t, time.Since(start))
	return t, nil
}

func (s *StreamSource) read(ctx context.Context, table string, parse func(io.Reader) error) error {
	name := s.format.FileName(table)
	rc, err := s.open(ctx, name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()
	return parse(&contextReader{ctx: ctx, r: rc})
}

// contextReader stops a long parse once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func record(logger zerolog.Logger, kind string, t domain.Tables, elapsed time.Duration) {
	metrics.DatasetLoadDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	metrics.DatasetRows.WithLabelValues(TableRatings).Set(float64(len(t.Ratings)))
	metrics.DatasetRows.WithLabelValues(TableMovies).Set(float64(len(t.Movies)))
	metrics.DatasetRows.WithLabelValues(TableUsers).Set(float64(len(t.Users)))

	logger.Info().
		Str("source", kind).
		Int(TableRatings, len(t.Ratings)).
		Int(TableMovies, len(t.Movies)).
		Int(TableUsers, len(t.Users)).
		Dur("duration", elapsed).
		Msg("dataset: loaded")
}
