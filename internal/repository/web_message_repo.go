package repository

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffportal/internal/model"
)

type WebMessageRepository struct {
	db *pgxpool.Pool
}

func NewWebMessageRepository(db *pgxpool.Pool) *WebMessageRepository {
	return &WebMessageRepository{db: db}
}

// Insert creates one published-content record.
func (r *WebMessageRepository) Insert(ctx context.Context, m *model.WebAPIMessage) error {
	query := `
        INSERT INTO msg_api_logs (id, type, title, content, priority, expiry_date, is_published, user_id, created)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        RETURNING created
    `
	return r.db.QueryRow(ctx, query,
		m.ID, m.Type, m.Title, m.Content, m.Priority, m.ExpiryDate, m.IsPublished, m.UserID,
	).Scan(&m.CreatedAt)
}

const webMessageSelect = `
        SELECT l.id, l.created, l.type, l.title, l.content, l.priority,
               l.expiry_date, l.is_published, l.user_id,
               u.first_name AS "user.first_name", u.last_name AS "user.last_name"
        FROM msg_api_logs l
        JOIN users u ON u.id = l.user_id`

// List returns the most recent rows across all users, newest first,
// regardless of publish state.
func (r *WebMessageRepository) List(ctx context.Context, limit int) ([]*model.WebAPIMessageEntry, error) {
	query := webMessageSelect + `
        ORDER BY l.created DESC
        LIMIT $1
    `
	var entries []*model.WebAPIMessageEntry
	if err := pgxscan.Select(ctx, r.db, &entries, query, limit); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByUser returns the most recent rows owned by one user, newest first.
func (r *WebMessageRepository) ListByUser(ctx context.Context, userID, limit int) ([]*model.WebAPIMessageEntry, error) {
	query := webMessageSelect + `
        WHERE l.user_id = $1
        ORDER BY l.created DESC
        LIMIT $2
    `
	var entries []*model.WebAPIMessageEntry
	if err := pgxscan.Select(ctx, r.db, &entries, query, userID, limit); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListPublished returns messages visible to readers: published and either
// never expiring or expiring in the future.
func (r *WebMessageRepository) ListPublished(ctx context.Context, msgType string, limit int) ([]*model.WebAPIMessage, error) {
	query := `
        SELECT id, created, type, title, content, priority, expiry_date, is_published, user_id
        FROM msg_api_logs
        WHERE type = $1
          AND is_published
          AND (expiry_date IS NULL OR expiry_date > NOW())
        ORDER BY created DESC
        LIMIT $2
    `
	var messages []*model.WebAPIMessage
	if err := pgxscan.Select(ctx, r.db, &messages, query, msgType, limit); err != nil {
		return nil, err
	}
	return messages, nil
}
