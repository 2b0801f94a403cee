package request

import (
	"fio-market/internal/domain/market"
	"fio-market/internal/usecase/commands"
)

type UpsertSellOrderRequest struct {
	Commodity     string  `json:"commodity" binding:"required"`
	Location      string  `json:"location" binding:"required"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Currency      string  `json:"currency" binding:"required"`
	Visibility    string  `json:"visibility" binding:"required,oneof=internal partner"`
	LimitMode     string  `json:"limit_mode" binding:"omitempty,oneof=none max_sell reserve"`
	LimitQuantity *int    `json:"limit_quantity"`
}

// ToParams applies the implicit default: no limit mode means sell everything.
func (r *UpsertSellOrderRequest) ToParams() commands.UpsertSellOrderParams {
	limitMode := market.LimitMode(r.LimitMode)
	if r.LimitMode == "" {
		limitMode = market.LimitModeNone
	}
	return commands.UpsertSellOrderParams{
		Commodity:     r.Commodity,
		Location:      r.Location,
		Price:         r.Price,
		Currency:      r.Currency,
		Visibility:    market.Visibility(r.Visibility),
		LimitMode:     limitMode,
		LimitQuantity: r.LimitQuantity,
	}
}

type UpsertBuyOrderRequest struct {
	Commodity  string  `json:"commodity" binding:"required"`
	Location   string  `json:"location" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required,gt=0"`
	Price      float64 `json:"price" binding:"required,gt=0"`
	Currency   string  `json:"currency" binding:"required"`
	Visibility string  `json:"visibility" binding:"required,oneof=internal partner"`
}

func (r *UpsertBuyOrderRequest) ToParams() commands.UpsertBuyOrderParams {
	return commands.UpsertBuyOrderParams{
		Commodity:  r.Commodity,
		Location:   r.Location,
		Quantity:   r.Quantity,
		Price:      r.Price,
		Currency:   r.Currency,
		Visibility: market.Visibility(r.Visibility),
	}
}
