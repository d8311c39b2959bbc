package domain

// JoinedRecord is one rating joined with its movie and user.
type JoinedRecord struct {
	UserID     int
	MovieID    int
	Rating     float64
	Timestamp  int64
	Title      string
	Year       int
	Genres     []string
	Gender     string
	Age        int
	Occupation int
	Zip        string
}

// ExpandedRecord is a JoinedRecord narrowed to a single genre. HasGenre is
// false for the null-genre row emitted when a record has no genres at all.
type ExpandedRecord struct {
	UserID     int
	MovieID    int
	Rating     float64
	Timestamp  int64
	Title      string
	Year       int
	Genre      string
	HasGenre   bool
	Gender     string
	Age        int
	Occupation int
	Zip        string
}

// GenreYearRating is one row of the ratings-by-genre-and-year view.
type GenreYearRating struct {
	Genre      string  `json:"genre"`
	Year       int     `json:"year"`
	MeanRating float64 `json:"meanRating"`
}

// GenreGenderCount is one row of the genre-popularity-by-gender view.
type GenreGenderCount struct {
	Genre  string `json:"genre"`
	Gender string `json:"gender"`
	Count  int64  `json:"count"`
}

// CorrMatrix is a square genre by genre matrix of Pearson coefficients.
type CorrMatrix struct {
	Genres []string    `json:"genres"`
	Values [][]float64 `json:"values"`
}

// At returns the coefficient for the genres at positions i and j.
func (m CorrMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}
