package commands

import (
	"context"

	"fio-market/internal/domain/market"
	"fio-market/internal/infra"
	"fio-market/internal/pkg/errs"
	"fio-market/internal/usecase/shared"
)

// UpsertSellOrderParams carries the caller-supplied order fields. The owner
// is always the authenticated actor.
type UpsertSellOrderParams struct {
	Commodity     string
	Location      string
	Price         float64
	Currency      string
	Visibility    market.Visibility
	LimitMode     market.LimitMode
	LimitQuantity *int
}

type UpsertBuyOrderParams struct {
	Commodity  string
	Location   string
	Quantity   int
	Price      float64
	Currency   string
	Visibility market.Visibility
}

type OrderCommands interface {
	UpsertSellOrder(ctx context.Context, actor shared.Identity, p UpsertSellOrderParams) (*market.SellOrder, error)
	UpsertBuyOrder(ctx context.Context, actor shared.Identity, p UpsertBuyOrderParams) (*market.BuyOrder, error)
	DeleteSellOrder(ctx context.Context, actor shared.Identity, id int64) error
	DeleteBuyOrder(ctx context.Context, actor shared.Identity, id int64) error
}

type orderCommandsImpl struct {
	writer OrderWriter
}

func NewOrderCommands(writer OrderWriter) OrderCommands {
	return &orderCommandsImpl{writer: writer}
}

// UpsertSellOrder creates or replaces the actor's sell order for the
// (commodity, location, visibility, currency) key. Replacement is
// last-write-wins and does not touch reservations already taken against the
// previous version of the order.
func (c *orderCommandsImpl) UpsertSellOrder(ctx context.Context, actor shared.Identity, p UpsertSellOrderParams) (*market.SellOrder, error) {
	order, err := market.NewSellOrder(actor.UserID, p.Commodity, p.Location, p.Price, p.Currency, p.Visibility, p.LimitMode, p.LimitQuantity)
	if err != nil {
		return nil, errs.Mark(err, shared.ErrBadRequest)
	}

	saved, err := c.writer.UpsertSellOrder(ctx, order)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to upsert sell order"), shared.ErrInternal)
	}
	return saved, nil
}

func (c *orderCommandsImpl) UpsertBuyOrder(ctx context.Context, actor shared.Identity, p UpsertBuyOrderParams) (*market.BuyOrder, error) {
	order, err := market.NewBuyOrder(actor.UserID, p.Commodity, p.Location, p.Quantity, p.Price, p.Currency, p.Visibility)
	if err != nil {
		return nil, errs.Mark(err, shared.ErrBadRequest)
	}

	saved, err := c.writer.UpsertBuyOrder(ctx, order)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to upsert buy order"), shared.ErrInternal)
	}
	return saved, nil
}

// DeleteSellOrder removes the actor's own order. The ownership check rides on
// the delete predicate, so foreign orders are indistinguishable from missing
// ones.
func (c *orderCommandsImpl) DeleteSellOrder(ctx context.Context, actor shared.Identity, id int64) error {
	if err := c.writer.DeleteSellOrder(ctx, id, actor.UserID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrOrderNotFound
		}
		return errs.Mark(errs.Wrap(err, "failed to delete sell order"), shared.ErrInternal)
	}
	return nil
}

func (c *orderCommandsImpl) DeleteBuyOrder(ctx context.Context, actor shared.Identity, id int64) error {
	if err := c.writer.DeleteBuyOrder(ctx, id, actor.UserID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrOrderNotFound
		}
		return errs.Mark(errs.Wrap(err, "failed to delete buy order"), shared.ErrInternal)
	}
	return nil
}
