package queries

import (
	"context"

	"fio-market/internal/infra"
	"fio-market/internal/pkg/errs"
	"fio-market/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errs.Mark(errs.New("Notification not found"), shared.ErrNotFound)

type NotificationStore interface {
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id int64, userID uuid.UUID) error
}

type NotificationQueries interface {
	ListNotifications(ctx context.Context, actor shared.Identity, unreadOnly bool) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, actor shared.Identity, id int64) error
}

type notificationQueriesImpl struct {
	store NotificationStore
}

func NewNotificationQueries(store NotificationStore) NotificationQueries {
	return &notificationQueriesImpl{store: store}
}

func (q *notificationQueriesImpl) ListNotifications(ctx context.Context, actor shared.Identity, unreadOnly bool) ([]Notification, error) {
	list, err := q.store.ListForUser(ctx, actor.UserID, unreadOnly)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to list notifications"), shared.ErrInternal)
	}
	if list == nil {
		list = []Notification{}
	}
	return list, nil
}

// MarkNotificationRead scopes the update to the recipient, so another user's
// notification id reads as missing.
func (q *notificationQueriesImpl) MarkNotificationRead(ctx context.Context, actor shared.Identity, id int64) error {
	if err := q.store.MarkRead(ctx, id, actor.UserID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrNotificationNotFound
		}
		return errs.Mark(errs.Wrap(err, "failed to mark notification read"), shared.ErrInternal)
	}
	return nil
}
