package pipeline

import (
	"cmp"
	"math"
	"slices"

	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
)

type meanAcc struct {
	sum   float64
	count int
}

func (a meanAcc) mean() float64 {
	return a.sum / float64(a.count)
}

// RatingsByGenreYear averages ratings per (genre, year), skipping the unknown
// year sentinel. Rows are ordered by year; rows sharing a year are ordered by
// genre.
func RatingsByGenreYear(rows []domain.ExpandedRecord) []domain.GenreYearRating {
	type key struct {
		genre string
		year  int
	}
	groups := make(map[key]*meanAcc)
	for _, r := range rows {
		if !r.HasGenre || r.Year == 0 {
			continue
		}
		k := key{genre: r.Genre, year: r.Year}
		acc, ok := groups[k]
		if !ok {
			acc = &meanAcc{}
			groups[k] = acc
		}
		acc.sum += r.Rating
		acc.count++
	}

	out := make([]domain.GenreYearRating, 0, len(groups))
	for k, acc := range groups {
		out = append(out, domain.GenreYearRating{Genre: k.genre, Year: k.year, MeanRating: acc.mean()})
	}
	slices.SortFunc(out, func(a, b domain.GenreYearRating) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.Genre, b.Genre))
	})
	return out
}

// GenrePopularityByGender counts expanded rows per (genre, gender), ordered by
// genre then gender.
func GenrePopularityByGender(rows []domain.ExpandedRecord) []domain.GenreGenderCount {
	type key struct {
		genre  string
		gender string
	}
	counts := make(map[key]int64)
	for _, r := range rows {
		if !r.HasGenre {
			continue
		}
		counts[key{genre: r.Genre, gender: r.Gender}]++
	}

	out := make([]domain.GenreGenderCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.GenreGenderCount{Genre: k.genre, Gender: k.gender, Count: n})
	}
	slices.SortFunc(out, func(a, b domain.GenreGenderCount) int {
		return cmp.Or(cmp.Compare(a.Genre, b.Genre), cmp.Compare(a.Gender, b.Gender))
	})
	return out
}

// GenreCorrelation builds the genre by user matrix of mean ratings, with zero
// for users who never rated a genre, and correlates every pair of genres
// across users. Undefined coefficients are reported as 0 and the diagonal is
// always 1.
func GenreCorrelation(rows []domain.ExpandedRecord) domain.CorrMatrix {
	type key struct {
		genre string
		user  int
	}
	cells := make(map[key]*meanAcc)
	genreSet := make(map[string]struct{})
	userSet := make(map[int]struct{})
	for _, r := range rows {
		if !r.HasGenre {
			continue
		}
		k := key{genre: r.Genre, user: r.UserID}
		acc, ok := cells[k]
		if !ok {
			acc = &meanAcc{}
			cells[k] = acc
		}
		acc.sum += r.Rating
		acc.count++
		genreSet[r.Genre] = struct{}{}
		userSet[r.UserID] = struct{}{}
	}

	genres := sortedKeys(genreSet)
	users := sortedKeys(userSet)
	userPos := make(map[int]int, len(users))
	for i, u := range users {
		userPos[u] = i
	}
	genrePos := make(map[string]int, len(genres))
	for i, g := range genres {
		genrePos[g] = i
	}

	columns := make([][]float64, len(genres))
	for i := range columns {
		columns[i] = make([]float64, len(users))
	}
	for k, acc := range cells {
		columns[genrePos[k.genre]][userPos[k.user]] = acc.mean()
	}

	values := make([][]float64, len(genres))
	for i := range values {
		values[i] = make([]float64, len(genres))
		values[i][i] = 1
	}
	for i := 0; i < len(genres); i++ {
		for j := i + 1; j < len(genres); j++ {
			r := pearson(columns[i], columns[j])
			if math.IsNaN(r) {
				r = 0
			}
			values[i][j] = r
			values[j][i] = r
		}
	}
	return domain.CorrMatrix{Genres: genres, Values: values}
}

// pearson returns NaN when either series has zero variance or fewer than two
// observations.
func pearson(a, b []float64) float64 {
	n := len(a)
	if n < 2 || n != len(b) {
		return math.NaN()
	}
	var sumA, sumB float64
	for i := 0; i < n; i++ {
		sumA += a[i]
		sumB += b[i]
	}
	meanA := sumA / float64(n)
	meanB := sumB / float64(n)

	var num, denA, denB float64
	for i := 0; i < n; i++ {
		diffA := a[i] - meanA
		diffB := b[i] - meanB
		num += diffA * diffB
		denA += diffA * diffA
		denB += diffB * diffB
	}
	if denA == 0 || denB == 0 {
		return math.NaN()
	}
	r := num / math.Sqrt(denA*denB)
	// Rounding can push |r| marginally past 1.
	return max(-1, min(1, r))
}

func sortedKeys[K cmp.Ordered](set map[K]struct{}) []K {
	keys := make([]K, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
