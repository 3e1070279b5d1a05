package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"staffportal/internal/model"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmailAndDepartment returns the staff user matching both fields.
func (r *UserRepository) FindByEmailAndDepartment(ctx context.Context, email, department string) (*model.User, error) {
	query := `
        SELECT id, first_name, last_name, email, department, created
        FROM users
        WHERE email = $1 AND department = $2
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, email, department).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Department, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
