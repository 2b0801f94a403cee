package reservation

import (
	"time"

	"fio-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrDanglingOrderRef = errs.New("reservation references no order")

// OrderKind distinguishes which order table a reservation points at.
type OrderKind string

const (
	OrderKindSell OrderKind = "sell"
	OrderKindBuy  OrderKind = "buy"
)

func ParseOrderKind(s string) (OrderKind, error) {
	switch OrderKind(s) {
	case OrderKindSell, OrderKindBuy:
		return OrderKind(s), nil
	default:
		return "", errs.Newf("unknown order kind %q", s)
	}
}

// OrderRef identifies the single order a reservation claims against.
type OrderRef struct {
	Kind OrderKind
	ID   int64
}

// Reservation is a counterparty's claim against exactly one sell- or
// buy-order. The other party is always the referenced order's owner.
type Reservation struct {
	ID                 int64
	SellOrderID        *int64
	BuyOrderID         *int64
	CounterpartyUserID uuid.UUID
	Quantity           int
	Status             Status
	Notes              string
	ExpiresAt          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewReservation builds the only creation state: pending. Self-dealing and
// visibility checks happen in the command layer where the parent order is at
// hand.
func NewReservation(ref OrderRef, counterpartyUserID uuid.UUID, quantity int, notes string, expiresAt *time.Time, now time.Time) (*Reservation, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	r := &Reservation{
		CounterpartyUserID: counterpartyUserID,
		Quantity:           quantity,
		Status:             StatusPending,
		Notes:              notes,
		ExpiresAt:          expiresAt,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	id := ref.ID
	switch ref.Kind {
	case OrderKindSell:
		r.SellOrderID = &id
	case OrderKindBuy:
		r.BuyOrderID = &id
	default:
		return nil, errs.Newf("unknown order kind %q", ref.Kind)
	}

	return r, nil
}

// OrderRef resolves the referenced order. A row with neither FK set is a
// corruption signal, not a default.
func (r *Reservation) OrderRef() (OrderRef, error) {
	switch {
	case r.SellOrderID != nil:
		return OrderRef{Kind: OrderKindSell, ID: *r.SellOrderID}, nil
	case r.BuyOrderID != nil:
		return OrderRef{Kind: OrderKindBuy, ID: *r.BuyOrderID}, nil
	default:
		return OrderRef{}, ErrDanglingOrderRef
	}
}

// Aggregate is the active-reservation rollup per order used to net supply.
type Aggregate struct {
	Count    int
	Quantity int
}
