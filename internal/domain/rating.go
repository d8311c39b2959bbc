package domain

// Rating represents a single user's rating event for a movie.
type Rating struct {
	UserID    int
	MovieID   int
	Value     float64
	Timestamp int64
}
