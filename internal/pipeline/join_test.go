package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
)

func TestJoinDropsUnmatchedRows(t *testing.T) {
	ratings := []domain.Rating{
		{UserID: 1, MovieID: 10, Value: 4},
		{UserID: 1, MovieID: 99, Value: 3}, // unknown movie
		{UserID: 7, MovieID: 10, Value: 2}, // unknown user
		{UserID: 2, MovieID: 20, Value: 5},
	}
	movies := deriveMovies([]domain.Movie{
		{ID: 10, Title: "Heat (1995)", RawGenres: "Action|Crime|Thriller"},
		{ID: 20, Title: "Sabrina (1995)", RawGenres: "Comedy|Romance"},
	})
	users := []domain.User{
		{ID: 1, Gender: "F", Age: 1, Occupation: 10, Zip: "48067"},
		{ID: 2, Gender: "M", Age: 56, Occupation: 16, Zip: "70072"},
	}

	joined, stats, err := Join(ratings, movies, users)
	require.NoError(t, err)
	require.Len(t, joined, 2)

	assert.Equal(t, JoinStats{Ratings: 4, Joined: 2, MissingMovie: 1, MissingUser: 1}, stats)
	assert.Equal(t, "Heat (1995)", joined[0].Title)
	assert.Equal(t, 1995, joined[0].Year)
	assert.Equal(t, "F", joined[0].Gender)
	assert.Equal(t, []string{"Comedy", "Romance"}, joined[1].Genres)
	assert.Equal(t, "70072", joined[1].Zip)
}

func TestJoinKeepsDuplicateRatings(t *testing.T) {
	ratings := []domain.Rating{
		{UserID: 1, MovieID: 10, Value: 4, Timestamp: 100},
		{UserID: 1, MovieID: 10, Value: 2, Timestamp: 200},
	}
	movies := deriveMovies([]domain.Movie{{ID: 10, Title: "Heat (1995)", RawGenres: "Action"}})
	users := []domain.User{{ID: 1, Gender: "M"}}

	joined, _, err := Join(ratings, movies, users)
	require.NoError(t, err)
	require.Len(t, joined, 2)
	assert.Equal(t, int64(100), joined[0].Timestamp)
	assert.Equal(t, int64(200), joined[1].Timestamp)
}

func TestJoinRejectsDuplicateKeys(t *testing.T) {
	ratings := []domain.Rating{{UserID: 1, MovieID: 10, Value: 4}}

	_, _, err := Join(ratings,
		[]domain.Movie{{ID: 10}, {ID: 10}},
		[]domain.User{{ID: 1}})
	require.ErrorIs(t, err, ErrDuplicateKey)

	_, _, err = Join(ratings,
		[]domain.Movie{{ID: 10}},
		[]domain.User{{ID: 1}, {ID: 1}})
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestJoinCardinalityNeverExceedsRatings(t *testing.T) {
	var ratings []domain.Rating
	for u := 1; u <= 5; u++ {
		for m := 1; m <= 8; m++ {
			ratings = append(ratings, domain.Rating{UserID: u, MovieID: m, Value: float64(m % 5)})
		}
	}
	movies := deriveMovies([]domain.Movie{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 8}})
	users := []domain.User{{ID: 2}, {ID: 4}, {ID: 5}}

	joined, stats, err := Join(ratings, movies, users)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(joined), len(ratings))
	assert.Equal(t, 4*3, len(joined))
	assert.Equal(t, len(ratings), stats.Joined+stats.MissingMovie+stats.MissingUser)
}

func TestExplode(t *testing.T) {
	joined := []domain.JoinedRecord{
		{UserID: 1, MovieID: 10, Rating: 5, Genres: []string{"Animation", "Children's", "Comedy"}, Gender: "M"},
		{UserID: 2, MovieID: 20, Rating: 3, Genres: []string{"Drama"}, Gender: "F"},
		{UserID: 3, MovieID: 30, Rating: 1, Genres: nil, Gender: "F"},
	}

	expanded := Explode(joined)
	require.Len(t, expanded, 5)

	for i, genre := range []string{"Animation", "Children's", "Comedy"} {
		assert.Equal(t, genre, expanded[i].Genre)
		assert.True(t, expanded[i].HasGenre)
		assert.Equal(t, 10, expanded[i].MovieID)
		assert.Equal(t, 5.0, expanded[i].Rating)
		assert.Equal(t, "M", expanded[i].Gender)
	}
	assert.Equal(t, "Drama", expanded[3].Genre)

	assert.False(t, expanded[4].HasGenre)
	assert.Empty(t, expanded[4].Genre)
	assert.Equal(t, 30, expanded[4].MovieID)
}

func TestExplodeEmptyGenreToken(t *testing.T) {
	joined := []domain.JoinedRecord{{UserID: 1, MovieID: 1, Genres: SplitGenres("")}}

	expanded := Explode(joined)
	require.Len(t, expanded, 1)
	assert.True(t, expanded[0].HasGenre)
	assert.Equal(t, "", expanded[0].Genre)
}
