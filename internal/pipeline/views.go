package pipeline

import "slices"

// View identifiers accepted by the dashboard.
const (
	ViewDistRatings = "dist_ratings"
	ViewPopGenres   = "pop_genres"
	ViewHeatmaps    = "heatmaps"
)

// View describes one entry of the dashboard dropdown.
type View struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var views = []View{
	{ID: ViewDistRatings, Label: "Average rating by genre over the years"},
	{ID: ViewPopGenres, Label: "Genre popularity by gender"},
	{ID: ViewHeatmaps, Label: "Genre rating correlation"},
}

// Views lists the known views in dropdown order.
func Views() []View {
	return slices.Clone(views)
}

// LookupView reports whether id names a known view.
func LookupView(id string) (View, bool) {
	for _, v := range views {
		if v.ID == id {
			return v, true
		}
	}
	return View{}, false
}

// Data returns the tidy result behind a view. The second value is false for
// unknown ids.
func (p *Pipeline) Data(id string) (any, bool) {
	switch id {
	case ViewDistRatings:
		return p.RatingsByGenreYear(), true
	case ViewPopGenres:
		return p.GenrePopularityByGender(), true
	case ViewHeatmaps:
		return p.GenreCorrelation(), true
	default:
		return nil, false
	}
}
