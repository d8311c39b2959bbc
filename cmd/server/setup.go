package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/ratings-dashboard/internal/config"
	"github.com/Clark-Hu/ratings-dashboard/internal/dataset"
	"github.com/Clark-Hu/ratings-dashboard/internal/logging"
	"github.com/Clark-Hu/ratings-dashboard/internal/pipeline"
	"github.com/Clark-Hu/ratings-dashboard/internal/remote"
	"github.com/Clark-Hu/ratings-dashboard/internal/repository"
	"github.com/Clark-Hu/ratings-dashboard/internal/store"
)

func setup() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("config error: %w", err)
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return cfg, logger, nil
}

func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*store.Store, error) {
	dbCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.DBConnTimeoutSecs)*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}
	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return st, nil
}

// fileSource builds the files source regardless of DATA_SOURCE.
func fileSource(cfg config.Config, logger zerolog.Logger) (dataset.Source, error) {
	format, err := dataset.ParseFormat(cfg.DataFormat, cfg.DataEncoding)
	if err != nil {
		return nil, err
	}
	return dataset.NewFileSource(cfg.DataDir, format, logger), nil
}

// newSource builds the source selected by DATA_SOURCE. The returned store is
// non-nil only for the postgres source and must be closed by the caller.
func newSource(ctx context.Context, cfg config.Config, logger zerolog.Logger) (dataset.Source, *store.Store, error) {
	switch cfg.DataSource {
	case config.SourceHTTP:
		format, err := dataset.ParseFormat(cfg.DataFormat, cfg.DataEncoding)
		if err != nil {
			return nil, nil, err
		}
		client, err := remote.NewHTTPClient(cfg.DatasetURL, cfg.DatasetAPIKey, time.Duration(cfg.DatasetTimeoutSecs)*time.Second, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("init dataset client: %w", err)
		}
		return dataset.NewRemoteSource(client, format, logger), nil, nil
	case config.SourcePostgres:
		st, err := openStore(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return dataset.NewPostgresSource(repository.New(st), logger), st, nil
	default:
		src, err := fileSource(cfg, logger)
		return src, nil, err
	}
}

// buildPipeline loads the tables within LOAD_TIMEOUT_SECS and builds the
// pipeline over them.
func buildPipeline(ctx context.Context, cfg config.Config, src dataset.Source, logger zerolog.Logger) (*pipeline.Pipeline, error) {
	loadCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.LoadTimeoutSecs)*time.Second)
	defer cancel()

	tables, err := src.Load(loadCtx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	p, err := pipeline.Build(tables, logger)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	return p, nil
}
