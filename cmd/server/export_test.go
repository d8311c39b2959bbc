package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
	"github.com/Clark-Hu/ratings-dashboard/internal/pipeline"
)

func buildTestPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	p, err := pipeline.Build(domain.Tables{
		Ratings: []domain.Rating{
			{UserID: 1, MovieID: 1, Value: 5},
			{UserID: 2, MovieID: 1, Value: 4},
			{UserID: 1, MovieID: 2, Value: 2},
			{UserID: 2, MovieID: 2, Value: 3},
		},
		Movies: []domain.Movie{
			{ID: 1, Title: "Toy Story (1995)", RawGenres: "Animation"},
			{ID: 2, Title: "Heat (1995)", RawGenres: "Action"},
		},
		Users: []domain.User{
			{ID: 1, Gender: "F"},
			{ID: 2, Gender: "M"},
		},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("build pipeline: %v", err)
	}
	return p
}

func TestWriteViewCSV(t *testing.T) {
	p := buildTestPipeline(t)

	tests := []struct {
		view string
		want string
	}{
		{
			view: "dist_ratings",
			want: "genre,year,mean_rating\nAction,1995,2.5\nAnimation,1995,4.5\n",
		},
		{
			view: "pop_genres",
			want: "genre,gender,count\nAction,F,1\nAction,M,1\nAnimation,F,1\nAnimation,M,1\n",
		},
		{
			view: "heatmaps",
			want: "genre,Action,Animation\nAction,1,-1\nAnimation,-1,1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeView(&buf, p, tt.view, "csv"); err != nil {
				t.Fatalf("writeView: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Fatalf("unexpected csv:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestWriteViewJSON(t *testing.T) {
	p := buildTestPipeline(t)
	var buf bytes.Buffer
	if err := writeView(&buf, p, "dist_ratings", "JSON"); err != nil {
		t.Fatalf("writeView: %v", err)
	}

	var rows []domain.GenreYearRating
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 || rows[0].Genre != "Action" || rows[0].MeanRating != 2.5 {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestWriteViewErrors(t *testing.T) {
	p := buildTestPipeline(t)
	var buf bytes.Buffer
	if err := writeView(&buf, p, "bogus", "csv"); err == nil {
		t.Fatal("expected error for unknown view")
	}
	err := writeView(&buf, p, "heatmaps", "xml")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestViewsCommand(t *testing.T) {
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"views"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, id := range []string{"dist_ratings", "pop_genres", "heatmaps"} {
		if !strings.Contains(out.String(), id) {
			t.Fatalf("views output missing %q:\n%s", id, out.String())
		}
	}
}
