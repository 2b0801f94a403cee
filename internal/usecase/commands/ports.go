package commands

import (
	"context"
	"time"

	"fio-market/internal/domain/market"
	"fio-market/internal/domain/reservation"
	"fio-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type OrderReader interface {
	SellOrderByID(ctx context.Context, id int64) (*market.SellOrder, error)
	BuyOrderByID(ctx context.Context, id int64) (*market.BuyOrder, error)
}

type OrderWriter interface {
	UpsertSellOrder(ctx context.Context, o *market.SellOrder) (*market.SellOrder, error)
	UpsertBuyOrder(ctx context.Context, o *market.BuyOrder) (*market.BuyOrder, error)
	DeleteSellOrder(ctx context.Context, id int64, ownerID uuid.UUID) error
	DeleteBuyOrder(ctx context.Context, id int64, ownerID uuid.UUID) error
}

type ReservationReader interface {
	FindByID(ctx context.Context, id int64) (*reservation.Reservation, error)
}

type ReservationWriter interface {
	Create(ctx context.Context, res *reservation.Reservation) (*reservation.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status reservation.Status, notes *string, updatedAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

type ReservationViewReader interface {
	DetailsByID(ctx context.Context, id int64) (*queries.ReservationWithDetails, error)
}

// EventDispatcher delivers a domain event after the originating state change
// committed. Implementations are best effort and must never fail the caller.
type EventDispatcher interface {
	Dispatch(ctx context.Context, ev reservation.Event)
}
