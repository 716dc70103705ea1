package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// NotificationRepository persists inbox notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByRecipient(ctx context.Context, email string, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, recipientEmail string) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository constructs repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	const query = `
        INSERT INTO notifications (recipient_email, job_id, comment_id, kind, message)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		n.RecipientEmail,
		n.JobID,
		n.CommentID,
		n.Kind,
		n.Message,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, email string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
        SELECT id, recipient_email, job_id, comment_id, kind, message, read, created_at
        FROM notifications WHERE LOWER(recipient_email)=$1`
	if unreadOnly {
		query += ` AND NOT read`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, strings.ToLower(email), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.RecipientEmail,
			&n.JobID,
			&n.CommentID,
			&n.Kind,
			&n.Message,
			&n.Read,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// MarkRead flags a notification as read; it only matches the recipient's own.
func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientEmail string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE notifications SET read=TRUE WHERE id=$1 AND LOWER(recipient_email)=$2`,
		id, strings.ToLower(recipientEmail))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
