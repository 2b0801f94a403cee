package repository

import (
	"context"

	"fio-market/internal/infra"
	"fio-market/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InventoryRepository reads the FIO snapshot table. The table is refreshed
// by an external sync job; this repository never writes it.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

// SnapshotForOwners returns per-storage-unit rows for the given owners. A
// seller may hold the same commodity at the same location across several
// storage units; callers sum them.
func (r *InventoryRepository) SnapshotForOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]queries.InventoryRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT owner_id, commodity, location, quantity
		FROM fio_inventory
		WHERE owner_id = ANY($1)
	`, ownerIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read inventory snapshot", err)
	}
	defer rows.Close()

	var result []queries.InventoryRow
	for rows.Next() {
		var row queries.InventoryRow
		if err := rows.Scan(&row.OwnerID, &row.Commodity, &row.Location, &row.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan inventory row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate inventory rows", err)
	}

	return result, nil
}
