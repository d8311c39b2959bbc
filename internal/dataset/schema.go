package dataset

import "strings"

// Table names, also used as file base names.
const (
	TableRatings = "ratings"
	TableMovies  = "movies"
	TableUsers   = "users"
)

type column struct {
	name    string
	aliases []string
}

type schema struct {
	table   string
	columns []column
}

var (
	ratingsSchema = schema{table: TableRatings, columns: []column{
		{name: "user_id"},
		{name: "movie_id"},
		{name: "rating"},
		{name: "timestamp"},
	}}
	moviesSchema = schema{table: TableMovies, columns: []column{
		{name: "movie_id"},
		{name: "title"},
		{name: "genres"},
	}}
	usersSchema = schema{table: TableUsers, columns: []column{
		{name: "user_id"},
		{name: "gender"},
		{name: "age"},
		{name: "occupation"},
		{name: "zip", aliases: []string{"zip_code", "zipcode"}},
	}}
)

// normalizeHeader folds case and drops separators so that movieId, movie_id
// and Movie-ID compare equal.
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

func (c column) matches(header string) bool {
	h := normalizeHeader(header)
	if h == normalizeHeader(c.name) {
		return true
	}
	for _, a := range c.aliases {
		if h == normalizeHeader(a) {
			return true
		}
	}
	return false
}
