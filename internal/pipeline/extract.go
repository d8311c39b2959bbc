package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
)

// GenreDelimiter separates genre names in the raw genres column.
const GenreDelimiter = "|"

var yearPattern = regexp.MustCompile(`\((\d{4})\)`)

// ExtractYear returns the first parenthesised four digit number in title, or 0
// when the title carries none.
func ExtractYear(title string) int {
	m := yearPattern.FindStringSubmatch(title)
	if m == nil {
		return 0
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return year
}

// SplitGenres splits a raw genres value on the delimiter. Empty tokens are kept
// so that joining the result reproduces the input.
func SplitGenres(genres string) []string {
	return strings.Split(genres, GenreDelimiter)
}

// deriveMovies returns copies of movies with Year and Genres populated.
func deriveMovies(movies []domain.Movie) []domain.Movie {
	out := make([]domain.Movie, len(movies))
	for i, m := range movies {
		m.Year = ExtractYear(m.Title)
		m.Genres = SplitGenres(m.RawGenres)
		out[i] = m
	}
	return out
}
