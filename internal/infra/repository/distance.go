package repository

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"fio-market/internal/infra"
	"fio-market/internal/infra/cache"
	"fio-market/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DistanceRepository resolves jump counts from the externally synced
// system_distances table. An unknown route is nil, not an error.
type DistanceRepository struct {
	pool *pgxpool.Pool
}

func NewDistanceRepository(pool *pgxpool.Pool) *DistanceRepository {
	return &DistanceRepository{pool: pool}
}

func (r *DistanceRepository) Jumps(ctx context.Context, from, to string) (*int, error) {
	if from == to {
		zero := 0
		return &zero, nil
	}

	var jumps int
	err := r.pool.QueryRow(ctx, `
		SELECT jumps FROM system_distances
		WHERE (from_location = $1 AND to_location = $2)
		   OR (from_location = $2 AND to_location = $1)
		LIMIT 1
	`, from, to).Scan(&jumps)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to resolve jump count", err)
	}

	return &jumps, nil
}

// DistanceOracle is the lookup contract the cached decorator wraps.
type DistanceOracle interface {
	Jumps(ctx context.Context, from, to string) (*int, error)
}

// CachedDistanceOracle memoizes jump counts; routes rarely change between
// galaxy resets. Cache failures fall through to the inner oracle.
type CachedDistanceOracle struct {
	inner DistanceOracle
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedDistanceOracle(inner DistanceOracle, c cache.Cache, ttl time.Duration) *CachedDistanceOracle {
	return &CachedDistanceOracle{inner: inner, cache: c, ttl: ttl}
}

const unknownRoute = "unknown"

func (o *CachedDistanceOracle) Jumps(ctx context.Context, from, to string) (*int, error) {
	key := distanceKey(from, to)

	if value, ok, err := o.cache.Get(ctx, key); err != nil {
		slog.Warn("distance cache read failed", "key", key, "error", err)
	} else if ok {
		if value == unknownRoute {
			return nil, nil
		}
		if jumps, convErr := strconv.Atoi(value); convErr == nil {
			return &jumps, nil
		}
	}

	jumps, err := o.inner.Jumps(ctx, from, to)
	if err != nil {
		return nil, err
	}

	value := unknownRoute
	if jumps != nil {
		value = strconv.Itoa(*jumps)
	}
	if err := o.cache.Set(ctx, key, value, o.ttl); err != nil {
		slog.Warn("distance cache write failed", "key", key, "error", err)
	}

	return jumps, nil
}

func distanceKey(from, to string) string {
	if to < from {
		from, to = to, from
	}
	return "jumps:" + from + ":" + to
}
