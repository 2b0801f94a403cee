package components

import (
	"fio-market/internal/infra/cache"
	"fio-market/internal/pkg/clock"
	"fio-market/internal/pkg/config"
	"fio-market/internal/usecase/authz"
	"fio-market/internal/usecase/commands"
	"fio-market/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewPermissionOracle,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewOrderCommands,
		commands.NewReservationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		NewMarketQueries,
		queries.NewReservationQueries,
		queries.NewNotificationQueries,
	),
)

// NewPermissionOracle layers the redis memoization over the static role
// grants.
func NewPermissionOracle(c cache.Cache, cfg config.Config) authz.Oracle {
	return authz.NewCachedOracle(authz.NewRoleOracle(), c, cfg.Redis.PermissionTTL)
}

func NewMarketQueries(
	orders queries.OrderDirectory,
	inventory queries.InventoryReader,
	ledger queries.ReservationLedger,
	distances queries.DistanceOracle,
	permissions authz.Oracle,
	cfg config.Config,
) queries.MarketQueries {
	return queries.NewMarketQueries(orders, inventory, ledger, distances, permissions, cfg.Market.DistanceLookupLimit)
}
