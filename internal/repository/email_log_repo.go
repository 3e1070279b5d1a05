package repository

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffportal/internal/model"
)

type EmailLogRepository struct {
	db *pgxpool.Pool
}

func NewEmailLogRepository(db *pgxpool.Pool) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

// Insert writes one aggregate log row per dispatch. Rows are never updated.
func (r *EmailLogRepository) Insert(ctx context.Context, l *model.EmailLog) error {
	query := `
        INSERT INTO email_logs (subject, message, recipients, status, message_id, attachments, error, user_id, created)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        RETURNING id, created
    `
	return r.db.QueryRow(ctx, query,
		l.Subject, l.Message, l.Recipients, l.Status, l.MessageID, l.Attachments, l.Error, l.UserID,
	).Scan(&l.ID, &l.CreatedAt)
}

const emailLogSelect = `
        SELECT l.id, l.created, l.subject, l.message, l.recipients, l.status,
               l.message_id, l.attachments, l.error, l.user_id,
               u.first_name AS "user.first_name", u.last_name AS "user.last_name"
        FROM email_logs l
        JOIN users u ON u.id = l.user_id`

// List returns the most recent rows across all users, newest first.
func (r *EmailLogRepository) List(ctx context.Context, limit int) ([]*model.EmailLogEntry, error) {
	query := emailLogSelect + `
        ORDER BY l.created DESC
        LIMIT $1
    `
	var entries []*model.EmailLogEntry
	if err := pgxscan.Select(ctx, r.db, &entries, query, limit); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByUser returns the most recent rows owned by one user, newest first.
func (r *EmailLogRepository) ListByUser(ctx context.Context, userID, limit int) ([]*model.EmailLogEntry, error) {
	query := emailLogSelect + `
        WHERE l.user_id = $1
        ORDER BY l.created DESC
        LIMIT $2
    `
	var entries []*model.EmailLogEntry
	if err := pgxscan.Select(ctx, r.db, &entries, query, userID, limit); err != nil {
		return nil, err
	}
	return entries, nil
}
