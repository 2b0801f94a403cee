package queries

import (
	"encoding/json"
	"time"

	"fio-market/internal/domain/market"
	"fio-market/internal/domain/reservation"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

// SellListing is one assembled market row: order data joined with owner
// identity, availability, reservation netting and an optional distance
// annotation.
type SellListing struct {
	OrderID           int64             `json:"order_id"`
	OwnerID           uuid.UUID         `json:"owner_id"`
	OwnerName         string            `json:"owner_name"`
	Commodity         string            `json:"commodity"`
	Location          string            `json:"location"`
	Price             float64           `json:"price"`
	Currency          string            `json:"currency"`
	Visibility        market.Visibility `json:"visibility"`
	AvailableQuantity int               `json:"available_quantity"`
	ReservationCount  int               `json:"reservation_count"`
	ReservedQuantity  int               `json:"reserved_quantity"`
	RemainingQuantity int               `json:"remaining_quantity"`
	Jumps             *int              `json:"jumps,omitempty"`
}

// BuyListing mirrors SellListing without the inventory-derived availability:
// remaining quantity nets the requested amount against active reservations.
type BuyListing struct {
	OrderID           int64             `json:"order_id"`
	OwnerID           uuid.UUID         `json:"owner_id"`
	OwnerName         string            `json:"owner_name"`
	Commodity         string            `json:"commodity"`
	Location          string            `json:"location"`
	RequestedQuantity int               `json:"requested_quantity"`
	Price             float64           `json:"price"`
	Currency          string            `json:"currency"`
	Visibility        market.Visibility `json:"visibility"`
	ReservationCount  int               `json:"reservation_count"`
	ReservedQuantity  int               `json:"reserved_quantity"`
	RemainingQuantity int               `json:"remaining_quantity"`
	Jumps             *int              `json:"jumps,omitempty"`
}

// Filters narrows a listing request. Destination switches on the distance
// annotation and the jump-count primary sort.
type Filters struct {
	Commodity   string
	Location    string
	Destination string
}

type SellOrderWithOwner struct {
	market.SellOrder
	OwnerName string
}

type BuyOrderWithOwner struct {
	market.BuyOrder
	OwnerName string
}

// InventoryRow is one storage unit's worth of a commodity; the assembler
// sums rows sharing (owner, commodity, location).
type InventoryRow struct {
	OwnerID   uuid.UUID
	Commodity string
	Location  string
	Quantity  int
}

// ReservationWithDetails joins a reservation with its parent order and both
// parties' display names.
type ReservationWithDetails struct {
	ID                 int64                 `json:"id"`
	OrderID            int64                 `json:"order_id"`
	OrderKind          reservation.OrderKind `json:"order_kind"`
	OwnerID            uuid.UUID             `json:"owner_id"`
	OwnerName          string                `json:"owner_name"`
	CounterpartyUserID uuid.UUID             `json:"counterparty_user_id"`
	CounterpartyName   string                `json:"counterparty_name"`
	Commodity          string                `json:"commodity"`
	Location           string                `json:"location"`
	Price              float64               `json:"price"`
	Currency           string                `json:"currency"`
	Quantity           int                   `json:"quantity"`
	Status             reservation.Status    `json:"status"`
	Notes              string                `json:"notes,omitempty"`
	ExpiresAt          *time.Time            `json:"expires_at,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// Notification is one sink row as surfaced to its recipient.
type Notification struct {
	ID              int64           `json:"id"`
	RecipientUserID uuid.UUID       `json:"recipient_user_id"`
	Type            string          `json:"type"`
	Title           string          `json:"title"`
	Message         string          `json:"message"`
	Data            json.RawMessage `json:"data"`
	Read            bool            `json:"read"`
	CreatedAt       time.Time       `json:"created_at"`
}
