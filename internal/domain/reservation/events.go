package reservation

import (
	"fmt"

	"github.com/google/uuid"
)

// EventType is the notification type pushed to the sink. It is a pure
// function of the reservation status change.
type EventType string

const (
	EventReservationPlaced    EventType = "reservation_placed"
	EventReservationConfirmed EventType = "reservation_confirmed"
	EventReservationRejected  EventType = "reservation_rejected"
	EventReservationFulfilled EventType = "reservation_fulfilled"
	EventReservationCancelled EventType = "reservation_cancelled"
	EventReservationReopened  EventType = "reservation_reopened"
)

// EventData is the structured payload carried alongside the human-readable
// message.
type EventData struct {
	ReservationID      int64     `json:"reservation_id"`
	OrderID            int64     `json:"order_id"`
	OrderKind          OrderKind `json:"order_kind"`
	CounterpartyUserID uuid.UUID `json:"counterparty_user_id"`
	Quantity           int       `json:"quantity"`
	Commodity          string    `json:"commodity"`
	Location           string    `json:"location"`
}

// Event is a domain event emitted by a reservation operation after its state
// change. Delivery is a separate, best-effort concern.
type Event struct {
	Type            EventType
	RecipientUserID uuid.UUID
	Title           string
	Message         string
	Data            EventData
}

// NewPlacedEvent notifies the order owner that a counterparty placed a
// pending reservation against their order.
func NewPlacedEvent(recipient uuid.UUID, data EventData) Event {
	return Event{
		Type:            EventReservationPlaced,
		RecipientUserID: recipient,
		Title:           "New reservation",
		Message: fmt.Sprintf("A reservation for %d %s at %s was placed against your %s order",
			data.Quantity, data.Commodity, data.Location, data.OrderKind),
		Data: data,
	}
}

var statusEventTemplates = map[Status]struct {
	eventType EventType
	title     string
	format    string
}{
	StatusConfirmed: {EventReservationConfirmed, "Reservation confirmed", "Your reservation for %d %s at %s was confirmed"},
	StatusRejected:  {EventReservationRejected, "Reservation rejected", "Your reservation for %d %s at %s was rejected"},
	StatusFulfilled: {EventReservationFulfilled, "Reservation fulfilled", "The reservation for %d %s at %s was fulfilled"},
	StatusCancelled: {EventReservationCancelled, "Reservation cancelled", "The reservation for %d %s at %s was cancelled"},
	StatusPending:   {EventReservationReopened, "Reservation reopened", "The cancelled reservation for %d %s at %s was reopened"},
}

// NewStatusEvent builds the notification for the party that did not invoke
// the transition.
func NewStatusEvent(newStatus Status, recipient uuid.UUID, data EventData) Event {
	tpl, ok := statusEventTemplates[newStatus]
	if !ok {
		tpl = statusEventTemplates[StatusCancelled]
	}

	return Event{
		Type:            tpl.eventType,
		RecipientUserID: recipient,
		Title:           tpl.title,
		Message:         fmt.Sprintf(tpl.format, data.Quantity, data.Commodity, data.Location),
		Data:            data,
	}
}
