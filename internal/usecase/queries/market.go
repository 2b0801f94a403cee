package queries

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"fio-market/internal/domain/market"
	"fio-market/internal/domain/reservation"
	"fio-market/internal/pkg/errs"
	"fio-market/internal/usecase/authz"
	"fio-market/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type OrderDirectory interface {
	ListSellOrdersWithOwner(ctx context.Context) ([]SellOrderWithOwner, error)
	ListBuyOrdersWithOwner(ctx context.Context) ([]BuyOrderWithOwner, error)
}

type InventoryReader interface {
	SnapshotForOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]InventoryRow, error)
}

type ReservationLedger interface {
	ActiveAggregates(ctx context.Context, kind reservation.OrderKind, orderIDs []int64) (map[int64]reservation.Aggregate, error)
}

type DistanceOracle interface {
	Jumps(ctx context.Context, from, to string) (*int, error)
}

type MarketQueries interface {
	ListSellListings(ctx context.Context, viewer shared.Identity, f Filters) ([]SellListing, error)
	ListBuyListings(ctx context.Context, viewer shared.Identity, f Filters) ([]BuyListing, error)
}

// marketQueriesImpl assembles listings on demand. Nothing here writes; the
// market view is recomputed from orders, the inventory snapshot and the
// reservation ledger on every request.
type marketQueriesImpl struct {
	orders      OrderDirectory
	inventory   InventoryReader
	ledger      ReservationLedger
	distances   DistanceOracle
	permissions authz.Oracle
	lookupLimit int
}

func NewMarketQueries(
	orders OrderDirectory,
	inventory InventoryReader,
	ledger ReservationLedger,
	distances DistanceOracle,
	permissions authz.Oracle,
	lookupLimit int,
) MarketQueries {
	if lookupLimit <= 0 {
		lookupLimit = 1
	}
	return &marketQueriesImpl{
		orders:      orders,
		inventory:   inventory,
		ledger:      ledger,
		distances:   distances,
		permissions: permissions,
		lookupLimit: lookupLimit,
	}
}

// visibilityGate resolves the viewer's capability grants once per assembly
// pass. A viewer holding neither capability sees nothing at all, their own
// orders included; otherwise owners see their own orders regardless of the
// oracle's answer.
type visibilityGate struct {
	viewer  shared.Identity
	granted map[string]bool
}

func newVisibilityGate(ctx context.Context, oracle authz.Oracle, viewer shared.Identity) *visibilityGate {
	granted := make(map[string]bool, 2)
	for _, capability := range []string{market.CapabilityViewInternal, market.CapabilityViewPartner} {
		granted[capability] = oracle.HasPermission(ctx, viewer.Roles, capability)
	}
	return &visibilityGate{viewer: viewer, granted: granted}
}

func (g *visibilityGate) deniedEverything() bool {
	for _, ok := range g.granted {
		if ok {
			return false
		}
	}
	return true
}

func (g *visibilityGate) allows(ownerID uuid.UUID, visibility market.Visibility) bool {
	if ownerID == g.viewer.UserID {
		return true
	}
	return g.granted[visibility.Capability()]
}

func matchesFilters(commodity, location string, f Filters) bool {
	if f.Commodity != "" && commodity != f.Commodity {
		return false
	}
	if f.Location != "" && location != f.Location {
		return false
	}
	return true
}

func (q *marketQueriesImpl) ListSellListings(ctx context.Context, viewer shared.Identity, f Filters) ([]SellListing, error) {
	gate := newVisibilityGate(ctx, q.permissions, viewer)
	if gate.deniedEverything() {
		return []SellListing{}, nil
	}

	orders, err := q.orders.ListSellOrdersWithOwner(ctx)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to list sell orders"), shared.ErrInternal)
	}

	var visible []SellOrderWithOwner
	for _, o := range orders {
		if gate.allows(o.OwnerID, o.Visibility) && matchesFilters(o.Commodity, o.Location, f) {
			visible = append(visible, o)
		}
	}
	if len(visible) == 0 {
		return []SellListing{}, nil
	}

	stock, err := q.stockByOwner(ctx, visible)
	if err != nil {
		return nil, err
	}

	// Availability gates inclusion before reservation netting: an order whose
	// available quantity is zero is hidden from everyone but its owner, while
	// a fully reserved order stays listed with remaining 0.
	listings := make([]SellListing, 0, len(visible))
	var ids []int64
	for _, o := range visible {
		fio := stock[stockKey{o.OwnerID, o.Commodity, o.Location}]
		available := market.AvailableQuantity(fio, o.LimitMode, o.LimitQuantity)
		if available <= 0 && o.OwnerID != viewer.UserID {
			continue
		}
		listings = append(listings, SellListing{
			OrderID:           o.ID,
			OwnerID:           o.OwnerID,
			OwnerName:         o.OwnerName,
			Commodity:         o.Commodity,
			Location:          o.Location,
			Price:             o.Price,
			Currency:          o.Currency,
			Visibility:        o.Visibility,
			AvailableQuantity: available,
		})
		ids = append(ids, o.ID)
	}
	if len(listings) == 0 {
		return []SellListing{}, nil
	}

	aggregates, err := q.ledger.ActiveAggregates(ctx, reservation.OrderKindSell, ids)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to aggregate sell reservations"), shared.ErrInternal)
	}
	for i := range listings {
		agg := aggregates[listings[i].OrderID]
		listings[i].ReservationCount = agg.Count
		listings[i].ReservedQuantity = agg.Quantity
		listings[i].RemainingQuantity = market.RemainingQuantity(listings[i].AvailableQuantity, agg.Quantity)
	}

	if f.Destination != "" {
		jumps := q.jumpsByLocation(ctx, f.Destination, sellLocations(listings))
		for i := range listings {
			listings[i].Jumps = jumps[listings[i].Location]
		}
	}

	sortSellListings(listings, f.Destination != "")
	return listings, nil
}

func (q *marketQueriesImpl) ListBuyListings(ctx context.Context, viewer shared.Identity, f Filters) ([]BuyListing, error) {
	gate := newVisibilityGate(ctx, q.permissions, viewer)
	if gate.deniedEverything() {
		return []BuyListing{}, nil
	}

	orders, err := q.orders.ListBuyOrdersWithOwner(ctx)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to list buy orders"), shared.ErrInternal)
	}

	listings := make([]BuyListing, 0, len(orders))
	var ids []int64
	for _, o := range orders {
		if !gate.allows(o.OwnerID, o.Visibility) || !matchesFilters(o.Commodity, o.Location, f) {
			continue
		}
		listings = append(listings, BuyListing{
			OrderID:           o.ID,
			OwnerID:           o.OwnerID,
			OwnerName:         o.OwnerName,
			Commodity:         o.Commodity,
			Location:          o.Location,
			RequestedQuantity: o.Quantity,
			Price:             o.Price,
			Currency:          o.Currency,
			Visibility:        o.Visibility,
		})
		ids = append(ids, o.ID)
	}
	if len(listings) == 0 {
		return []BuyListing{}, nil
	}

	aggregates, err := q.ledger.ActiveAggregates(ctx, reservation.OrderKindBuy, ids)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to aggregate buy reservations"), shared.ErrInternal)
	}
	for i := range listings {
		agg := aggregates[listings[i].OrderID]
		listings[i].ReservationCount = agg.Count
		listings[i].ReservedQuantity = agg.Quantity
		listings[i].RemainingQuantity = market.RemainingQuantity(listings[i].RequestedQuantity, agg.Quantity)
	}

	if f.Destination != "" {
		jumps := q.jumpsByLocation(ctx, f.Destination, buyLocations(listings))
		for i := range listings {
			listings[i].Jumps = jumps[listings[i].Location]
		}
	}

	sortBuyListings(listings, f.Destination != "")
	return listings, nil
}

type stockKey struct {
	ownerID   uuid.UUID
	commodity string
	location  string
}

// stockByOwner sums the per-storage-unit snapshot rows into one quantity per
// (owner, commodity, location).
func (q *marketQueriesImpl) stockByOwner(ctx context.Context, orders []SellOrderWithOwner) (map[stockKey]int, error) {
	seen := make(map[uuid.UUID]bool, len(orders))
	var owners []uuid.UUID
	for _, o := range orders {
		if !seen[o.OwnerID] {
			seen[o.OwnerID] = true
			owners = append(owners, o.OwnerID)
		}
	}

	rows, err := q.inventory.SnapshotForOwners(ctx, owners)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to read inventory snapshot"), shared.ErrInternal)
	}

	stock := make(map[stockKey]int, len(rows))
	for _, row := range rows {
		stock[stockKey{row.OwnerID, row.Commodity, row.Location}] += row.Quantity
	}
	return stock, nil
}

// jumpsByLocation resolves jump counts for every distinct origin location
// concurrently. A failed or unknown lookup yields nil; distance annotation
// never fails the listing.
func (q *marketQueriesImpl) jumpsByLocation(ctx context.Context, destination string, locations []string) map[string]*int {
	result := make(map[string]*int, len(locations))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.lookupLimit)
	for _, loc := range locations {
		loc := loc
		g.Go(func() error {
			jumps, err := q.distances.Jumps(gctx, loc, destination)
			if err != nil {
				slog.Warn("distance lookup failed", "from", loc, "to", destination, "error", err)
				return nil
			}
			mu.Lock()
			result[loc] = jumps
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return result
}

func sellLocations(listings []SellListing) []string {
	seen := make(map[string]bool, len(listings))
	var out []string
	for _, l := range listings {
		if !seen[l.Location] {
			seen[l.Location] = true
			out = append(out, l.Location)
		}
	}
	return out
}

func buyLocations(listings []BuyListing) []string {
	seen := make(map[string]bool, len(listings))
	var out []string
	for _, l := range listings {
		if !seen[l.Location] {
			seen[l.Location] = true
			out = append(out, l.Location)
		}
	}
	return out
}

// sortSellListings orders by jump count when a destination was given (orders
// with unknown distance sort last), then commodity, location and price
// ascending.
func sortSellListings(listings []SellListing, byDistance bool) {
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		if byDistance {
			if c := compareJumps(a.Jumps, b.Jumps); c != 0 {
				return c < 0
			}
		}
		if a.Commodity != b.Commodity {
			return a.Commodity < b.Commodity
		}
		if a.Location != b.Location {
			return a.Location < b.Location
		}
		return a.Price < b.Price
	})
}

// sortBuyListings mirrors the sell sort but ranks the best (highest) bid
// first within a commodity and location.
func sortBuyListings(listings []BuyListing, byDistance bool) {
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		if byDistance {
			if c := compareJumps(a.Jumps, b.Jumps); c != 0 {
				return c < 0
			}
		}
		if a.Commodity != b.Commodity {
			return a.Commodity < b.Commodity
		}
		if a.Location != b.Location {
			return a.Location < b.Location
		}
		return a.Price > b.Price
	})
}

func compareJumps(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}
