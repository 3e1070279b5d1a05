package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffportal/internal/model"
)

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session row.
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	query := `
        INSERT INTO sessions (session_token, user_id, created, expires)
        VALUES ($1, $2, NOW(), $3)
        RETURNING created
    `
	return r.db.QueryRow(ctx, query, s.Token, s.UserID, s.Expires).Scan(&s.CreatedAt)
}

// FindValid returns the non-expired session for the given token joined with
// its owning user's public fields, or nil when no such session exists.
func (r *SessionRepository) FindValid(ctx context.Context, token string) (*model.SessionUser, error) {
	query := `
        SELECT s.session_token, s.user_id, s.created, s.expires,
               u.id, u.first_name, u.last_name, u.email, u.department, u.created
        FROM sessions s
        JOIN users u ON u.id = s.user_id
        WHERE s.session_token = $1 AND s.expires > NOW()
    `
	var su model.SessionUser
	err := r.db.QueryRow(ctx, query, token).Scan(
		&su.Session.Token, &su.Session.UserID, &su.Session.CreatedAt, &su.Session.Expires,
		&su.User.ID, &su.User.FirstName, &su.User.LastName, &su.User.Email, &su.User.Department, &su.User.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &su, nil
}

// DeleteActive removes every session with expires > now, system-wide.
// Logout is intentionally not scoped to the caller's own session.
func (r *SessionRepository) DeleteActive(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires > NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
