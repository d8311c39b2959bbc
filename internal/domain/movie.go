package domain

// Movie is one row of the movie metadata table. Year and Genres are derived
// from Title and RawGenres when the pipeline is built.
type Movie struct {
	ID        int
	Title     string
	RawGenres string
	Year      int
	Genres    []string
}
