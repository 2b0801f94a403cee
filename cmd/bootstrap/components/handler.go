package components

import (
	"fio-market/internal/handler"
	"fio-market/internal/handler/api"
	"fio-market/internal/handler/middleware"
	"fio-market/internal/pkg/jwt"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func(s *jwt.Service) middleware.TokenValidator { return s },
		middleware.NewAuthMiddleware,
		api.NewMarketHandler,
		api.NewOrderHandler,
		api.NewReservationHandler,
		api.NewNotificationHandler,
	),
	fx.Invoke(handler.NewRouter),
)
