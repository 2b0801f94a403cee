//go:build unit || e2e

package builder

import (
	"time"

	"fio-market/internal/domain/reservation"
	reqdto "fio-market/internal/handler/dto/request"
	"fio-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID                 int64
	OrderKind          reservation.OrderKind
	OrderID            int64
	OwnerID            uuid.UUID
	OwnerName          string
	CounterpartyUserID uuid.UUID
	CounterpartyName   string
	Commodity          string
	Location           string
	Price              float64
	Currency           string
	Quantity           int
	Status             reservation.Status
	Notes              string
	ExpiresAt          *time.Time
	CreatedAt          time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		ID:                 1,
		OrderKind:          reservation.OrderKindSell,
		OrderID:            1,
		OwnerID:            uuid.New(),
		OwnerName:          "Katoa Freight Co",
		CounterpartyUserID: uuid.New(),
		CounterpartyName:   "Montem Logistics",
		Commodity:          "RAT",
		Location:           "Katoa",
		Price:              42.5,
		Currency:           "AIC",
		Quantity:           100,
		Status:             reservation.StatusPending,
		Notes:              "pickup next cycle",
		CreatedAt:          time.Now(),
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	ref := reservation.OrderRef{Kind: b.OrderKind, ID: b.OrderID}
	return reservation.NewReservation(ref, b.CounterpartyUserID, b.Quantity, b.Notes, b.ExpiresAt, b.CreatedAt)
}

// BuildEntity bypasses creation invariants to produce reservations in any
// status.
func (b *ReservationBuilder) BuildEntity() *reservation.Reservation {
	r := &reservation.Reservation{
		ID:                 b.ID,
		CounterpartyUserID: b.CounterpartyUserID,
		Quantity:           b.Quantity,
		Status:             b.Status,
		Notes:              b.Notes,
		ExpiresAt:          b.ExpiresAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.CreatedAt,
	}
	orderID := b.OrderID
	if b.OrderKind == reservation.OrderKindBuy {
		r.BuyOrderID = &orderID
	} else {
		r.SellOrderID = &orderID
	}
	return r
}

func (b *ReservationBuilder) BuildDetails() *queries.ReservationWithDetails {
	return &queries.ReservationWithDetails{
		ID:                 b.ID,
		OrderID:            b.OrderID,
		OrderKind:          b.OrderKind,
		OwnerID:            b.OwnerID,
		OwnerName:          b.OwnerName,
		CounterpartyUserID: b.CounterpartyUserID,
		CounterpartyName:   b.CounterpartyName,
		Commodity:          b.Commodity,
		Location:           b.Location,
		Price:              b.Price,
		Currency:           b.Currency,
		Quantity:           b.Quantity,
		Status:             b.Status,
		Notes:              b.Notes,
		ExpiresAt:          b.ExpiresAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.CreatedAt,
	}
}

func (b *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		OrderKind: string(b.OrderKind),
		OrderID:   b.OrderID,
		Quantity:  b.Quantity,
		Notes:     b.Notes,
		ExpiresAt: b.ExpiresAt,
	}
}
