package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
)

// UsersRepository reads and writes the users table.
type UsersRepository struct {
	pool *pgxpool.Pool
}

var userColumns = []string{"user_id", "gender", "age", "occupation", "zip"}

// All returns every user ordered by id.
func (r *UsersRepository) All(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id, gender, age, occupation, zip FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.User, error) {
		var u domain.User
		err := row.Scan(&u.ID, &u.Gender, &u.Age, &u.Occupation, &u.Zip)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	return users, nil
}

func (r *UsersRepository) copyIn(ctx context.Context, tx pgx.Tx, users []domain.User) (int64, error) {
	n, err := tx.CopyFrom(ctx, pgx.Identifier{"users"}, userColumns,
		pgx.CopyFromSlice(len(users), func(i int) ([]any, error) {
			u := users[i]
			return []any{u.ID, u.Gender, u.Age, u.Occupation, u.Zip}, nil
		}))
	if err != nil {
		return 0, fmt.Errorf("copy users: %w", err)
	}
	return n, nil
}
