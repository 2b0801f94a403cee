package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is applied idempotently at startup. fio_inventory and
// system_distances are populated by external sync jobs; this service only
// reads them.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		display_name TEXT NOT NULL,
		roles TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS sell_orders (
		id BIGSERIAL PRIMARY KEY,
		owner_id UUID NOT NULL REFERENCES users(id),
		commodity TEXT NOT NULL,
		location TEXT NOT NULL,
		price NUMERIC(16,2) NOT NULL,
		currency TEXT NOT NULL,
		visibility TEXT NOT NULL,
		limit_mode TEXT NOT NULL DEFAULT 'none',
		limit_quantity INT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (owner_id, commodity, location, visibility, currency)
	)`,

	`CREATE TABLE IF NOT EXISTS buy_orders (
		id BIGSERIAL PRIMARY KEY,
		owner_id UUID NOT NULL REFERENCES users(id),
		commodity TEXT NOT NULL,
		location TEXT NOT NULL,
		quantity INT NOT NULL CHECK (quantity > 0),
		price NUMERIC(16,2) NOT NULL,
		currency TEXT NOT NULL,
		visibility TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (owner_id, commodity, location, visibility, currency)
	)`,

	`CREATE TABLE IF NOT EXISTS order_reservations (
		id BIGSERIAL PRIMARY KEY,
		sell_order_id BIGINT REFERENCES sell_orders(id) ON DELETE CASCADE,
		buy_order_id BIGINT REFERENCES buy_orders(id) ON DELETE CASCADE,
		counterparty_user_id UUID NOT NULL REFERENCES users(id),
		quantity INT NOT NULL CHECK (quantity > 0),
		status TEXT NOT NULL DEFAULT 'pending',
		notes TEXT NOT NULL DEFAULT '',
		expires_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK ((sell_order_id IS NULL) <> (buy_order_id IS NULL))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_order_reservations_sell ON order_reservations (sell_order_id) WHERE sell_order_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_order_reservations_buy ON order_reservations (buy_order_id) WHERE buy_order_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_order_reservations_counterparty ON order_reservations (counterparty_user_id)`,

	`CREATE TABLE IF NOT EXISTS fio_inventory (
		owner_id UUID NOT NULL,
		commodity TEXT NOT NULL,
		location TEXT NOT NULL,
		storage_id TEXT NOT NULL DEFAULT '',
		quantity INT NOT NULL DEFAULT 0,
		synced_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (owner_id, commodity, location, storage_id)
	)`,

	`CREATE TABLE IF NOT EXISTS system_distances (
		from_location TEXT NOT NULL,
		to_location TEXT NOT NULL,
		jumps INT NOT NULL,
		PRIMARY KEY (from_location, to_location)
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		recipient_user_id UUID NOT NULL REFERENCES users(id),
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		data JSONB NOT NULL DEFAULT '{}',
		read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications (recipient_user_id, read)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
