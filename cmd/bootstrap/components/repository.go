package components

import (
	"fio-market/internal/infra/cache"
	"fio-market/internal/infra/notify"
	repo_impl "fio-market/internal/infra/repository"
	"fio-market/internal/pkg/config"
	"fio-market/internal/usecase/commands"
	"fio-market/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewOrderRepository,
			fx.As(new(commands.OrderReader)),
			fx.As(new(commands.OrderWriter)),
			fx.As(new(queries.OrderDirectory)),
		),
		fx.Annotate(
			repo_impl.NewReservationRepository,
			fx.As(new(commands.ReservationReader)),
			fx.As(new(commands.ReservationWriter)),
			fx.As(new(commands.ReservationViewReader)),
			fx.As(new(queries.ReservationViewReader)),
			fx.As(new(queries.ReservationLedger)),
		),
		fx.Annotate(
			repo_impl.NewInventoryRepository,
			fx.As(new(queries.InventoryReader)),
		),
		fx.Annotate(
			repo_impl.NewNotificationRepository,
			fx.As(new(notify.NotificationWriter)),
			fx.As(new(queries.NotificationStore)),
		),
		NewDistanceOracle,
		func(p *notify.Producer) notify.EventPublisher { return p },
		fx.Annotate(
			notify.NewDispatcher,
			fx.As(new(commands.EventDispatcher)),
		),
	),
)

// NewDistanceOracle layers the redis memoization over the table lookup.
func NewDistanceOracle(pool *pgxpool.Pool, c cache.Cache, cfg config.Config) queries.DistanceOracle {
	return repo_impl.NewCachedDistanceOracle(repo_impl.NewDistanceRepository(pool), c, cfg.Redis.DistanceTTL)
}
