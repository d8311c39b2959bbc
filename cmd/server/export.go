package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
	"github.com/Clark-Hu/ratings-dashboard/internal/pipeline"
)

func runExport(cmd *cobra.Command, args []string) error {
	id := args[0]
	if _, ok := pipeline.LookupView(id); !ok {
		return fmt.Errorf("unknown view %q (run the views command for the list)", id)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	src, st, err := newSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}
	p, err := buildPipeline(ctx, cfg, src, logger)
	if err != nil {
		return err
	}
	return writeView(cmd.OutOrStdout(), p, id, format)
}

// writeView writes the tidy relation behind view id in the given format.
func writeView(w io.Writer, p *pipeline.Pipeline, id, format string) error {
	data, ok := p.Data(id)
	if !ok {
		return fmt.Errorf("unknown view %q", id)
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "csv":
		return writeCSV(w, data)
	default:
		return fmt.Errorf("unsupported format %q: want csv or json", format)
	}
}

func writeCSV(w io.Writer, data any) error {
	cw := csv.NewWriter(w)
	switch rows := data.(type) {
	case []domain.GenreYearRating:
		_ = cw.Write([]string{"genre", "year", "mean_rating"})
		for _, r := range rows {
			_ = cw.Write([]string{r.Genre, strconv.Itoa(r.Year), formatFloat(r.MeanRating)})
		}
	case []domain.GenreGenderCount:
		_ = cw.Write([]string{"genre", "gender", "count"})
		for _, r := range rows {
			_ = cw.Write([]string{r.Genre, r.Gender, strconv.FormatInt(r.Count, 10)})
		}
	case domain.CorrMatrix:
		_ = cw.Write(append([]string{"genre"}, rows.Genres...))
		for i, g := range rows.Genres {
			record := make([]string, 0, len(rows.Genres)+1)
			record = append(record, g)
			for j := range rows.Genres {
				record = append(record, formatFloat(rows.At(i, j)))
			}
			_ = cw.Write(record)
		}
	default:
		return fmt.Errorf("no csv layout for %T", data)
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
