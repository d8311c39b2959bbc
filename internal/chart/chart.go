// Package chart turns pipeline views into plotly figures that
// the dashboard page draws with plotly.js.
package chart

import (
	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
	"github.com/Clark-Hu/ratings-dashboard/internal/pipeline"
)

// Figure is a plotly figure: a list of traces plus a layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is the subset of plotly trace attributes the dashboard uses.
type Trace struct {
	Type       string      `json:"type"`
	Mode       string      `json:"mode,omitempty"`
	Name       string      `json:"name,omitempty"`
	X          any         `json:"x,omitempty"`
	Y          any         `json:"y,omitempty"`
	Z          [][]float64 `json:"z,omitempty"`
	ZMin       *float64    `json:"zmin,omitempty"`
	ZMax       *float64    `json:"zmax,omitempty"`
	ColorScale string      `json:"colorscale,omitempty"`
}

// Layout holds figure level settings.
type Layout struct {
	Title       string       `json:"title,omitempty"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	BarMode     string       `json:"barmode,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Axis configures one axis.
type Axis struct {
	Title   string `json:"title,omitempty"`
	Visible *bool  `json:"visible,omitempty"`
}

// Annotation is a free text label placed on the figure.
type Annotation struct {
	Text      string  `json:"text"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ShowArrow bool    `json:"showarrow"`
}

// Views is the query surface a figure is rendered from.
type Views interface {
	RatingsByGenreYear() []domain.GenreYearRating
	GenrePopularityByGender() []domain.GenreGenderCount
	GenreCorrelation() domain.CorrMatrix
}

// Render builds the figure for view id. Unknown ids yield Empty rather than an
// error; the boolean reports whether id was recognised.
func Render(v Views, id string) (Figure, bool) {
	switch id {
	case pipeline.ViewDistRatings:
		return RatingsLines(v.RatingsByGenreYear()), true
	case pipeline.ViewPopGenres:
		return PopularityBars(v.GenrePopularityByGender()), true
	case pipeline.ViewHeatmaps:
		return CorrelationHeatmap(v.GenreCorrelation()), true
	default:
		return Empty(), false
	}
}

// RatingsLines draws one line per genre of mean rating over release year.
func RatingsLines(rows []domain.GenreYearRating) Figure {
	traces := make([]Trace, 0)
	index := make(map[string]int)
	years := make(map[string][]int)
	means := make(map[string][]float64)
	for _, r := range rows {
		if _, ok := index[r.Genre]; !ok {
			index[r.Genre] = len(traces)
			traces = append(traces, Trace{Type: "scatter", Mode: "lines", Name: r.Genre})
		}
		years[r.Genre] = append(years[r.Genre], r.Year)
		means[r.Genre] = append(means[r.Genre], r.MeanRating)
	}
	for genre, i := range index {
		traces[i].X = years[genre]
		traces[i].Y = means[genre]
	}

	return Figure{
		Data: traces,
		Layout: Layout{
			Title: "Average rating by genre over the years",
			XAxis: &Axis{Title: "Release year"},
			YAxis: &Axis{Title: "Mean rating"},
		},
	}
}

// PopularityBars draws grouped bars of rating counts per genre, one bar group
// per gender.
func PopularityBars(rows []domain.GenreGenderCount) Figure {
	traces := make([]Trace, 0)
	index := make(map[string]int)
	genres := make(map[string][]string)
	counts := make(map[string][]int64)
	for _, r := range rows {
		if _, ok := index[r.Gender]; !ok {
			index[r.Gender] = len(traces)
			traces = append(traces, Trace{Type: "bar", Name: r.Gender})
		}
		genres[r.Gender] = append(genres[r.Gender], r.Genre)
		counts[r.Gender] = append(counts[r.Gender], r.Count)
	}
	for gender, i := range index {
		traces[i].X = genres[gender]
		traces[i].Y = counts[gender]
	}

	return Figure{
		Data: traces,
		Layout: Layout{
			Title:   "Genre popularity by gender",
			XAxis:   &Axis{Title: "Genre"},
			YAxis:   &Axis{Title: "Ratings"},
			BarMode: "group",
		},
	}
}

// CorrelationHeatmap draws the genre correlation matrix on a fixed [-1, 1]
// color range.
func CorrelationHeatmap(m domain.CorrMatrix) Figure {
	lo, hi := -1.0, 1.0
	return Figure{
		Data: []Trace{{
			Type:       "heatmap",
			X:          m.Genres,
			Y:          m.Genres,
			Z:          m.Values,
			ZMin:       &lo,
			ZMax:       &hi,
			ColorScale: "RdBu",
		}},
		Layout: Layout{Title: "Genre rating correlation"},
	}
}

// Empty is the "no visualization" figure returned for unknown views.
func Empty() Figure {
	hidden := false
	return Figure{
		Data: []Trace{},
		Layout: Layout{
			XAxis: &Axis{Visible: &hidden},
			YAxis: &Axis{Visible: &hidden},
			Annotations: []Annotation{{
				Text: "No visualization",
				XRef: "paper",
				YRef: "paper",
				X:    0.5,
				Y:    0.5,
			}},
		},
	}
}
