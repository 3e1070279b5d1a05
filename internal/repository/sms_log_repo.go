package repository

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffportal/internal/model"
)

type SmsLogRepository struct {
	db *pgxpool.Pool
}

func NewSmsLogRepository(db *pgxpool.Pool) *SmsLogRepository {
	return &SmsLogRepository{db: db}
}

// Insert writes one aggregate log row per dispatch. Rows are never updated.
func (r *SmsLogRepository) Insert(ctx context.Context, l *model.SmsLog) error {
	query := `
        INSERT INTO sms_logs (message, recipients, status, message_ids, error, user_id, created)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id, created
    `
	return r.db.QueryRow(ctx, query,
		l.Message, l.Recipients, l.Status, l.MessageIDs, l.Error, l.UserID,
	).Scan(&l.ID, &l.CreatedAt)
}

const smsLogSelect = `
        SELECT l.id, l.created, l.message, l.recipients, l.status, l.message_ids,
               l.error, l.user_id,
               u.first_name AS "user.first_name", u.last_name AS "user.last_name"
        FROM sms_logs l
        JOIN users u ON u.id = l.user_id`

// List returns the most recent rows across all users, newest first.
func (r *SmsLogRepository) List(ctx context.Context, limit int) ([]*model.SmsLogEntry, error) {
	query := smsLogSelect + `
        ORDER BY l.created DESC
        LIMIT $1
    `
	var entries []*model.SmsLogEntry
	if err := pgxscan.Select(ctx, r.db, &entries, query, limit); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByUser returns the most recent rows owned by one user, newest first.
func (r *SmsLogRepository) ListByUser(ctx context.Context, userID, limit int) ([]*model.SmsLogEntry, error) {
	query := smsLogSelect + `
        WHERE l.user_id = $1
        ORDER BY l.created DESC
        LIMIT $2
    `
	var entries []*model.SmsLogEntry
	if err := pgxscan.Select(ctx, r.db, &entries, query, userID, limit); err != nil {
		return nil, err
	}
	return entries, nil
}
