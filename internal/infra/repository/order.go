package repository

import (
	"context"

	"fio-market/internal/domain/market"
	"fio-market/internal/infra"
	"fio-market/internal/pkg/pgconv"
	"fio-market/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// UpsertSellOrder is the explicit replace-or-insert gateway operation: a new
// post with the same (owner, commodity, location, visibility, currency)
// replaces the prior order in place, keeping its id.
func (r *OrderRepository) UpsertSellOrder(ctx context.Context, o *market.SellOrder) (*market.SellOrder, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO sell_orders (owner_id, commodity, location, price, currency, visibility, limit_mode, limit_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_id, commodity, location, visibility, currency)
		DO UPDATE SET price = EXCLUDED.price,
		              limit_mode = EXCLUDED.limit_mode,
		              limit_quantity = EXCLUDED.limit_quantity,
		              updated_at = now()
		RETURNING id, created_at, updated_at
	`, o.OwnerID, o.Commodity, o.Location, o.Price, o.Currency, o.Visibility, o.LimitMode, pgconv.IntPtrToPgtype(o.LimitQuantity))

	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&o.ID, &createdAt, &updatedAt); err != nil {
		return nil, infra.WrapRepoErr("failed to upsert sell order", err, infra.PgKind(err))
	}

	o.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	o.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return o, nil
}

func (r *OrderRepository) UpsertBuyOrder(ctx context.Context, o *market.BuyOrder) (*market.BuyOrder, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO buy_orders (owner_id, commodity, location, quantity, price, currency, visibility)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (owner_id, commodity, location, visibility, currency)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              price = EXCLUDED.price,
		              updated_at = now()
		RETURNING id, created_at, updated_at
	`, o.OwnerID, o.Commodity, o.Location, o.Quantity, o.Price, o.Currency, o.Visibility)

	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&o.ID, &createdAt, &updatedAt); err != nil {
		return nil, infra.WrapRepoErr("failed to upsert buy order", err, infra.PgKind(err))
	}

	o.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	o.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return o, nil
}

func (r *OrderRepository) SellOrderByID(ctx context.Context, id int64) (*market.SellOrder, error) {
	o := &market.SellOrder{}
	var price pgtype.Numeric
	var limitQuantity pgtype.Int4
	var createdAt, updatedAt pgtype.Timestamptz

	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, commodity, location, price, currency, visibility, limit_mode, limit_quantity, created_at, updated_at
		FROM sell_orders WHERE id = $1
	`, id).Scan(&o.ID, &o.OwnerID, &o.Commodity, &o.Location, &price, &o.Currency, &o.Visibility, &o.LimitMode, &limitQuantity, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("sell order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find sell order by ID", err)
	}

	if o.Price, err = pgconv.Float64FromNumeric(price); err != nil {
		return nil, infra.WrapRepoErr("invalid sell order price", err)
	}
	o.LimitQuantity = pgconv.IntPtrFromPgtype(limitQuantity)
	o.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	o.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return o, nil
}

func (r *OrderRepository) BuyOrderByID(ctx context.Context, id int64) (*market.BuyOrder, error) {
	o := &market.BuyOrder{}
	var price pgtype.Numeric
	var createdAt, updatedAt pgtype.Timestamptz

	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, commodity, location, quantity, price, currency, visibility, created_at, updated_at
		FROM buy_orders WHERE id = $1
	`, id).Scan(&o.ID, &o.OwnerID, &o.Commodity, &o.Location, &o.Quantity, &price, &o.Currency, &o.Visibility, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("buy order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find buy order by ID", err)
	}

	if o.Price, err = pgconv.Float64FromNumeric(price); err != nil {
		return nil, infra.WrapRepoErr("invalid buy order price", err)
	}
	o.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	o.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return o, nil
}

func (r *OrderRepository) DeleteSellOrder(ctx context.Context, id int64, ownerID uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM sell_orders WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete sell order", err)
	}
	if ct.RowsAffected() == 0 {
		return infra.WrapRepoErr("sell order not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OrderRepository) DeleteBuyOrder(ctx context.Context, id int64, ownerID uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM buy_orders WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete buy order", err)
	}
	if ct.RowsAffected() == 0 {
		return infra.WrapRepoErr("buy order not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OrderRepository) ListSellOrdersWithOwner(ctx context.Context) ([]queries.SellOrderWithOwner, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.owner_id, u.display_name, o.commodity, o.location, o.price, o.currency,
		       o.visibility, o.limit_mode, o.limit_quantity, o.created_at, o.updated_at
		FROM sell_orders o
		JOIN users u ON u.id = o.owner_id
		ORDER BY o.id
	`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list sell orders", err)
	}
	defer rows.Close()

	var result []queries.SellOrderWithOwner
	for rows.Next() {
		var row queries.SellOrderWithOwner
		var price pgtype.Numeric
		var limitQuantity pgtype.Int4
		var createdAt, updatedAt pgtype.Timestamptz

		if err := rows.Scan(&row.ID, &row.OwnerID, &row.OwnerName, &row.Commodity, &row.Location, &price,
			&row.Currency, &row.Visibility, &row.LimitMode, &limitQuantity, &createdAt, &updatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan sell order row", err)
		}

		if row.Price, err = pgconv.Float64FromNumeric(price); err != nil {
			return nil, infra.WrapRepoErr("invalid sell order price", err)
		}
		row.LimitQuantity = pgconv.IntPtrFromPgtype(limitQuantity)
		row.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		row.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate sell order rows", err)
	}

	return result, nil
}

func (r *OrderRepository) ListBuyOrdersWithOwner(ctx context.Context) ([]queries.BuyOrderWithOwner, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.owner_id, u.display_name, o.commodity, o.location, o.quantity, o.price,
		       o.currency, o.visibility, o.created_at, o.updated_at
		FROM buy_orders o
		JOIN users u ON u.id = o.owner_id
		ORDER BY o.id
	`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list buy orders", err)
	}
	defer rows.Close()

	var result []queries.BuyOrderWithOwner
	for rows.Next() {
		var row queries.BuyOrderWithOwner
		var price pgtype.Numeric
		var createdAt, updatedAt pgtype.Timestamptz

		if err := rows.Scan(&row.ID, &row.OwnerID, &row.OwnerName, &row.Commodity, &row.Location, &row.Quantity,
			&price, &row.Currency, &row.Visibility, &createdAt, &updatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan buy order row", err)
		}

		if row.Price, err = pgconv.Float64FromNumeric(price); err != nil {
			return nil, infra.WrapRepoErr("invalid buy order price", err)
		}
		row.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		row.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate buy order rows", err)
	}

	return result, nil
}
