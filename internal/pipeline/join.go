package pipeline

import (
	"fmt"

	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
)

// JoinStats reports how many ratings survived the inner join.
type JoinStats struct {
	Ratings      int
	Joined       int
	MissingMovie int
	MissingUser  int
}

// Join inner-joins ratings with movies on movie id and then with users on user
// id, in rating order. Ratings without a matching movie or user are dropped.
// Repeated ratings for the same user and movie are all kept.
//
// Movies are expected to carry derived Year and Genres. Duplicate movie or user
// ids are rejected with ErrDuplicateKey.
func Join(ratings []domain.Rating, movies []domain.Movie, users []domain.User) ([]domain.JoinedRecord, JoinStats, error) {
	stats := JoinStats{Ratings: len(ratings)}

	movieIdx := make(map[int]int, len(movies))
	for i, m := range movies {
		if _, dup := movieIdx[m.ID]; dup {
			return nil, stats, fmt.Errorf("movies: movie_id %d: %w", m.ID, ErrDuplicateKey)
		}
		movieIdx[m.ID] = i
	}
	userIdx := make(map[int]int, len(users))
	for i, u := range users {
		if _, dup := userIdx[u.ID]; dup {
			return nil, stats, fmt.Errorf("users: user_id %d: %w", u.ID, ErrDuplicateKey)
		}
		userIdx[u.ID] = i
	}

	joined := make([]domain.JoinedRecord, 0, len(ratings))
	for _, r := range ratings {
		mi, ok := movieIdx[r.MovieID]
		if !ok {
			stats.MissingMovie++
			continue
		}
		ui, ok := userIdx[r.UserID]
		if !ok {
			stats.MissingUser++
			continue
		}
		m := movies[mi]
		u := users[ui]
		joined = append(joined, domain.JoinedRecord{
			UserID:     r.UserID,
			MovieID:    r.MovieID,
			Rating:     r.Value,
			Timestamp:  r.Timestamp,
			Title:      m.Title,
			Year:       m.Year,
			Genres:     m.Genres,
			Gender:     u.Gender,
			Age:        u.Age,
			Occupation: u.Occupation,
			Zip:        u.Zip,
		})
	}
	stats.Joined = len(joined)
	return joined, stats, nil
}

// Explode replicates each joined record once per genre. A record without
// genres yields a single row with HasGenre unset.
func Explode(joined []domain.JoinedRecord) []domain.ExpandedRecord {
	size := 0
	for _, j := range joined {
		size += max(len(j.Genres), 1)
	}

	out := make([]domain.ExpandedRecord, 0, size)
	for _, j := range joined {
		row := domain.ExpandedRecord{
			UserID:     j.UserID,
			MovieID:    j.MovieID,
			Rating:     j.Rating,
			Timestamp:  j.Timestamp,
			Title:      j.Title,
			Year:       j.Year,
			Gender:     j.Gender,
			Age:        j.Age,
			Occupation: j.Occupation,
			Zip:        j.Zip,
		}
		if len(j.Genres) == 0 {
			out = append(out, row)
			continue
		}
		for _, g := range j.Genres {
			row.Genre = g
			row.HasGenre = true
			out = append(out, row)
		}
	}
	return out
}
