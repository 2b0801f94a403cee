package repository

import (
	"context"
	"time"

	"fio-market/internal/domain/reservation"
	"fio-market/internal/infra"
	"fio-market/internal/pkg/pgconv"
	"fio-market/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) (*reservation.Reservation, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO order_reservations (sell_order_id, buy_order_id, counterparty_user_id, quantity, status, notes, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, pgconv.Int64PtrToPgtype(res.SellOrderID), pgconv.Int64PtrToPgtype(res.BuyOrderID),
		res.CounterpartyUserID, res.Quantity, res.Status, res.Notes, pgconv.TimePtrToPgtype(res.ExpiresAt))

	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&res.ID, &createdAt, &updatedAt); err != nil {
		return nil, infra.WrapRepoErr("failed to create reservation", err, infra.PgKind(err))
	}

	res.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	res.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return res, nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id int64) (*reservation.Reservation, error) {
	res := &reservation.Reservation{}
	var sellOrderID, buyOrderID pgtype.Int8
	var expiresAt, createdAt, updatedAt pgtype.Timestamptz

	err := r.pool.QueryRow(ctx, `
		SELECT id, sell_order_id, buy_order_id, counterparty_user_id, quantity, status, notes, expires_at, created_at, updated_at
		FROM order_reservations WHERE id = $1
	`, id).Scan(&res.ID, &sellOrderID, &buyOrderID, &res.CounterpartyUserID, &res.Quantity, &res.Status, &res.Notes, &expiresAt, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	res.SellOrderID = pgconv.Int64PtrFromPgtype(sellOrderID)
	res.BuyOrderID = pgconv.Int64PtrFromPgtype(buyOrderID)
	res.ExpiresAt = pgconv.TimePtrFromPgtype(expiresAt)
	res.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	res.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return res, nil
}

// UpdateStatus is a deliberate read-modify-write without a version check:
// concurrent transitions on the same row resolve last-write-wins.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, status reservation.Status, notes *string, updatedAt time.Time) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE order_reservations
		SET status = $2,
		    notes = COALESCE($3, notes),
		    updated_at = $4
		WHERE id = $1
	`, id, status, pgconv.StringPtrToPgtype(notes), updatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if ct.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM order_reservations WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete reservation", err)
	}
	if ct.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

// ActiveAggregates rolls up pending and confirmed reservations per order id.
// Callers must not pass an empty id set; the assembler skips the step
// entirely when no orders survive filtering.
func (r *ReservationRepository) ActiveAggregates(ctx context.Context, kind reservation.OrderKind, orderIDs []int64) (map[int64]reservation.Aggregate, error) {
	column := "sell_order_id"
	if kind == reservation.OrderKindBuy {
		column = "buy_order_id"
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+column+`, COUNT(*), COALESCE(SUM(quantity), 0)
		FROM order_reservations
		WHERE `+column+` = ANY($1) AND status IN ('pending', 'confirmed')
		GROUP BY `+column+`
	`, orderIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate reservations", err)
	}
	defer rows.Close()

	result := make(map[int64]reservation.Aggregate, len(orderIDs))
	for rows.Next() {
		var orderID int64
		var count, quantity int
		if err := rows.Scan(&orderID, &count, &quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation aggregate", err)
		}
		result[orderID] = reservation.Aggregate{Count: count, Quantity: quantity}
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation aggregates", err)
	}

	return result, nil
}

const reservationDetailsQuery = `
	SELECT r.id,
	       COALESCE(r.sell_order_id, r.buy_order_id) AS order_id,
	       CASE WHEN r.sell_order_id IS NOT NULL THEN 'sell' ELSE 'buy' END AS order_kind,
	       COALESCE(s.owner_id, b.owner_id) AS owner_id,
	       ou.display_name AS owner_name,
	       r.counterparty_user_id,
	       cu.display_name AS counterparty_name,
	       COALESCE(s.commodity, b.commodity) AS commodity,
	       COALESCE(s.location, b.location) AS location,
	       COALESCE(s.price, b.price) AS price,
	       COALESCE(s.currency, b.currency) AS currency,
	       r.quantity, r.status, r.notes, r.expires_at, r.created_at, r.updated_at
	FROM order_reservations r
	LEFT JOIN sell_orders s ON s.id = r.sell_order_id
	LEFT JOIN buy_orders b ON b.id = r.buy_order_id
	JOIN users cu ON cu.id = r.counterparty_user_id
	JOIN users ou ON ou.id = COALESCE(s.owner_id, b.owner_id)
`

func (r *ReservationRepository) DetailsByID(ctx context.Context, id int64) (*queries.ReservationWithDetails, error) {
	row := r.pool.QueryRow(ctx, reservationDetailsQuery+` WHERE r.id = $1`, id)

	details, err := scanReservationDetails(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation details", err)
	}
	return details, nil
}

// ListByParty returns reservations the user participates in from either
// side, newest first.
func (r *ReservationRepository) ListByParty(ctx context.Context, userID uuid.UUID) ([]*queries.ReservationWithDetails, error) {
	rows, err := r.pool.Query(ctx, reservationDetailsQuery+`
		WHERE r.counterparty_user_id = $1 OR COALESCE(s.owner_id, b.owner_id) = $1
		ORDER BY r.created_at DESC, r.id DESC
	`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var result []*queries.ReservationWithDetails
	for rows.Next() {
		details, err := scanReservationDetails(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation details", err)
		}
		result = append(result, details)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation details", err)
	}

	return result, nil
}

type pgxRow interface {
	Scan(dest ...any) error
}

func scanReservationDetails(row pgxRow) (*queries.ReservationWithDetails, error) {
	d := &queries.ReservationWithDetails{}
	var price pgtype.Numeric
	var expiresAt, createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&d.ID, &d.OrderID, &d.OrderKind, &d.OwnerID, &d.OwnerName,
		&d.CounterpartyUserID, &d.CounterpartyName, &d.Commodity, &d.Location,
		&price, &d.Currency, &d.Quantity, &d.Status, &d.Notes, &expiresAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if d.Price, err = pgconv.Float64FromNumeric(price); err != nil {
		return nil, err
	}
	d.ExpiresAt = pgconv.TimePtrFromPgtype(expiresAt)
	d.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	d.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return d, nil
}
