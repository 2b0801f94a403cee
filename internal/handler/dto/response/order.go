package response

import (
	"time"

	"fio-market/internal/domain/market"
)

type SellOrderResponse struct {
	ID            int64     `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Commodity     string    `json:"commodity"`
	Location      string    `json:"location"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	Visibility    string    `json:"visibility"`
	LimitMode     string    `json:"limit_mode"`
	LimitQuantity *int      `json:"limit_quantity,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromSellOrder(o *market.SellOrder) *SellOrderResponse {
	return &SellOrderResponse{
		ID:            o.ID,
		OwnerID:       o.OwnerID.String(),
		Commodity:     o.Commodity,
		Location:      o.Location,
		Price:         o.Price,
		Currency:      o.Currency,
		Visibility:    string(o.Visibility),
		LimitMode:     string(o.LimitMode),
		LimitQuantity: o.LimitQuantity,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

type BuyOrderResponse struct {
	ID         int64     `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Commodity  string    `json:"commodity"`
	Location   string    `json:"location"`
	Quantity   int       `json:"quantity"`
	Price      float64   `json:"price"`
	Currency   string    `json:"currency"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromBuyOrder(o *market.BuyOrder) *BuyOrderResponse {
	return &BuyOrderResponse{
		ID:         o.ID,
		OwnerID:    o.OwnerID.String(),
		Commodity:  o.Commodity,
		Location:   o.Location,
		Quantity:   o.Quantity,
		Price:      o.Price,
		Currency:   o.Currency,
		Visibility: string(o.Visibility),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}
