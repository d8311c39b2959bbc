package main

import (
	"github.com/spf13/cobra"

	"github.com/Clark-Hu/ratings-dashboard/internal/repository"
)

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if err := cfg.ValidateDB(); err != nil {
		return err
	}

	src, err := fileSource(cfg, logger)
	if err != nil {
		return err
	}
	tables, err := src.Load(ctx)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return err
	}
	stats, err := repository.New(st).Import(ctx, tables)
	if err != nil {
		return err
	}
	logger.Info().
		Int64("ratings", stats.Ratings).
		Int64("movies", stats.Movies).
		Int64("users", stats.Users).
		Msg("import complete")
	return nil
}
