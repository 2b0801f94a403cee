package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"fio-market/internal/domain/reservation"

	"github.com/google/uuid"
)

// NotificationWriter is the in-app sink row store.
type NotificationWriter interface {
	Create(ctx context.Context, recipientUserID uuid.UUID, notificationType, title, message string, data json.RawMessage) error
}

// EventPublisher is the external fan-out channel.
type EventPublisher interface {
	Publish(key, value []byte)
}

// Dispatcher delivers reservation events after the originating state change
// has already succeeded. Every failure here is logged and swallowed: the
// notification side channel never changes the outcome of the operation.
type Dispatcher struct {
	notifications NotificationWriter
	publisher     EventPublisher
}

func NewDispatcher(notifications NotificationWriter, publisher EventPublisher) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		publisher:     publisher,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev reservation.Event) {
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		slog.Error("failed to marshal reservation event payload",
			"type", ev.Type, "reservation_id", ev.Data.ReservationID, "error", err)
		return
	}

	if err := d.notifications.Create(ctx, ev.RecipientUserID, string(ev.Type), ev.Title, ev.Message, payload); err != nil {
		slog.Warn("failed to store notification",
			"type", ev.Type, "recipient", ev.RecipientUserID, "error", err)
	}

	envelope, err := json.Marshal(map[string]any{
		"type":      ev.Type,
		"recipient": ev.RecipientUserID,
		"title":     ev.Title,
		"message":   ev.Message,
		"data":      ev.Data,
	})
	if err != nil {
		slog.Error("failed to marshal reservation event envelope", "type", ev.Type, "error", err)
		return
	}

	// Key by order id so all events of one order stay ordered per partition.
	d.publisher.Publish([]byte(strconv.FormatInt(ev.Data.OrderID, 10)), envelope)
}
