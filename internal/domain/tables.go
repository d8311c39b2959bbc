package domain

// Tables bundles the three source relations produced by a dataset loader.
type Tables struct {
	Ratings []Rating
	Movies  []Movie
	Users   []User
}
