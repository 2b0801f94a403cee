//go:build unit || e2e

package builder

import (
	"time"

	"fio-market/internal/domain/market"
	reqdto "fio-market/internal/handler/dto/request"
	"fio-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type SellOrderBuilder struct {
	ID            int64
	OwnerID       uuid.UUID
	OwnerName     string
	Commodity     string
	Location      string
	Price         float64
	Currency      string
	Visibility    market.Visibility
	LimitMode     market.LimitMode
	LimitQuantity *int
	CreatedAt     time.Time
}

func NewSellOrderBuilder() *SellOrderBuilder {
	return &SellOrderBuilder{
		ID:         1,
		OwnerID:    uuid.New(),
		OwnerName:  "Katoa Freight Co",
		Commodity:  "RAT",
		Location:   "Katoa",
		Price:      42.5,
		Currency:   "AIC",
		Visibility: market.VisibilityInternal,
		LimitMode:  market.LimitModeNone,
		CreatedAt:  time.Now(),
	}
}

func (b *SellOrderBuilder) With(mutate func(*SellOrderBuilder)) *SellOrderBuilder {
	mutate(b)
	return b
}

func (b *SellOrderBuilder) BuildDomain() (*market.SellOrder, error) {
	return market.NewSellOrder(b.OwnerID, b.Commodity, b.Location, b.Price, b.Currency, b.Visibility, b.LimitMode, b.LimitQuantity)
}

func (b *SellOrderBuilder) BuildWithOwner() queries.SellOrderWithOwner {
	return queries.SellOrderWithOwner{
		SellOrder: market.SellOrder{
			ID:            b.ID,
			OwnerID:       b.OwnerID,
			Commodity:     b.Commodity,
			Location:      b.Location,
			Price:         b.Price,
			Currency:      b.Currency,
			Visibility:    b.Visibility,
			LimitMode:     b.LimitMode,
			LimitQuantity: b.LimitQuantity,
			CreatedAt:     b.CreatedAt,
			UpdatedAt:     b.CreatedAt,
		},
		OwnerName: b.OwnerName,
	}
}

func (b *SellOrderBuilder) BuildUpsertRequestDTO() reqdto.UpsertSellOrderRequest {
	return reqdto.UpsertSellOrderRequest{
		Commodity:     b.Commodity,
		Location:      b.Location,
		Price:         b.Price,
		Currency:      b.Currency,
		Visibility:    string(b.Visibility),
		LimitMode:     string(b.LimitMode),
		LimitQuantity: b.LimitQuantity,
	}
}

type BuyOrderBuilder struct {
	ID         int64
	OwnerID    uuid.UUID
	OwnerName  string
	Commodity  string
	Location   string
	Quantity   int
	Price      float64
	Currency   string
	Visibility market.Visibility
	CreatedAt  time.Time
}

func NewBuyOrderBuilder() *BuyOrderBuilder {
	return &BuyOrderBuilder{
		ID:         1,
		OwnerID:    uuid.New(),
		OwnerName:  "Promitor Mining",
		Commodity:  "DW",
		Location:   "Promitor",
		Quantity:   500,
		Price:      60,
		Currency:   "AIC",
		Visibility: market.VisibilityInternal,
		CreatedAt:  time.Now(),
	}
}

func (b *BuyOrderBuilder) With(mutate func(*BuyOrderBuilder)) *BuyOrderBuilder {
	mutate(b)
	return b
}

func (b *BuyOrderBuilder) BuildDomain() (*market.BuyOrder, error) {
	return market.NewBuyOrder(b.OwnerID, b.Commodity, b.Location, b.Quantity, b.Price, b.Currency, b.Visibility)
}

func (b *BuyOrderBuilder) BuildWithOwner() queries.BuyOrderWithOwner {
	return queries.BuyOrderWithOwner{
		BuyOrder: market.BuyOrder{
			ID:         b.ID,
			OwnerID:    b.OwnerID,
			Commodity:  b.Commodity,
			Location:   b.Location,
			Quantity:   b.Quantity,
			Price:      b.Price,
			Currency:   b.Currency,
			Visibility: b.Visibility,
			CreatedAt:  b.CreatedAt,
			UpdatedAt:  b.CreatedAt,
		},
		OwnerName: b.OwnerName,
	}
}
