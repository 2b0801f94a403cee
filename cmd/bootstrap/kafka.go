package bootstrap

import (
	"context"

	"fio-market/internal/infra/notify"
	"fio-market/internal/pkg/config"

	"go.uber.org/fx"
)

var KafkaModule = fx.Module("kafka",
	fx.Provide(
		NewEventProducer,
	),
)

func NewEventProducer(lc fx.Lifecycle, cfg config.Config) *notify.Producer {
	producer := notify.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Buffer)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			producer.Start(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			producer.WaitClosed()
			return nil
		},
	})

	return producer
}
