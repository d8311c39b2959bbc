package domain

// User carries the demographic columns of the users table.
type User struct {
	ID         int
	Gender     string
	Age        int
	Occupation int
	Zip        string
}
