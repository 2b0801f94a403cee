package authz

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"fio-market/internal/infra/cache"
)

// CachedOracle memoizes permission decisions in the injected cache. Cache
// failures degrade to evaluating the inner oracle directly.
type CachedOracle struct {
	inner Oracle
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedOracle(inner Oracle, c cache.Cache, ttl time.Duration) *CachedOracle {
	return &CachedOracle{inner: inner, cache: c, ttl: ttl}
}

func (o *CachedOracle) HasPermission(ctx context.Context, roles []string, capability string) bool {
	key := permissionKey(roles, capability)

	if value, ok, err := o.cache.Get(ctx, key); err != nil {
		slog.Warn("permission cache read failed", "key", key, "error", err)
	} else if ok {
		return value == "1"
	}

	granted := o.inner.HasPermission(ctx, roles, capability)

	value := "0"
	if granted {
		value = "1"
	}
	if err := o.cache.Set(ctx, key, value, o.ttl); err != nil {
		slog.Warn("permission cache write failed", "key", key, "error", err)
	}

	return granted
}

// Invalidate drops the cached decision for a role set and capability, for
// use when grants change.
func (o *CachedOracle) Invalidate(ctx context.Context, roles []string, capability string) error {
	return o.cache.Delete(ctx, permissionKey(roles, capability))
}

func permissionKey(roles []string, capability string) string {
	sorted := make([]string, len(roles))
	copy(sorted, roles)
	sort.Strings(sorted)
	return "perm:" + strings.Join(sorted, ",") + ":" + capability
}
