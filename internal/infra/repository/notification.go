package repository

import (
	"context"
	"encoding/json"

	"fio-market/internal/infra"
	"fio-market/internal/pkg/pgconv"
	"fio-market/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, recipientUserID uuid.UUID, notificationType, title, message string, data json.RawMessage) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (recipient_user_id, type, title, message, data)
		VALUES ($1, $2, $3, $4, $5)
	`, recipientUserID, notificationType, title, message, data)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification", err, infra.PgKind(err))
	}
	return nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]queries.Notification, error) {
	query := `
		SELECT id, recipient_user_id, type, title, message, data, read, created_at
		FROM notifications
		WHERE recipient_user_id = $1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list notifications", err)
	}
	defer rows.Close()

	var result []queries.Notification
	for rows.Next() {
		var n queries.Notification
		var createdAt pgtype.Timestamptz
		if err := rows.Scan(&n.ID, &n.RecipientUserID, &n.Type, &n.Title, &n.Message, &n.Data, &n.Read, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification row", err)
		}
		n.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notification rows", err)
	}

	return result, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, userID uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_user_id = $2
	`, id, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification read", err)
	}
	if ct.RowsAffected() == 0 {
		return infra.WrapRepoErr("notification not found", nil, infra.KindNotFound)
	}
	return nil
}
