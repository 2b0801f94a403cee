package request

import (
	"time"

	"fio-market/internal/domain/reservation"
	"fio-market/internal/usecase/commands"
)

// CreateReservationRequest deliberately leaves quantity without a binding
// constraint so the domain's own validation message reaches the client.
type CreateReservationRequest struct {
	OrderKind string     `json:"order_kind" binding:"required,oneof=sell buy"`
	OrderID   int64      `json:"order_id" binding:"required"`
	Quantity  int        `json:"quantity"`
	Notes     string     `json:"notes"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (r *CreateReservationRequest) ToParams() commands.CreateReservationParams {
	return commands.CreateReservationParams{
		OrderKind: reservation.OrderKind(r.OrderKind),
		OrderID:   r.OrderID,
		Quantity:  r.Quantity,
		Notes:     r.Notes,
		ExpiresAt: r.ExpiresAt,
	}
}

type UpdateReservationStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}
