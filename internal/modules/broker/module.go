package broker

import (
	"context"
	"fmt"

	"signal_bot/internal/modules/broker/service"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module поднимает клиента MT5-бриджа. Без логина в терминал бот не стартует.
func Module() fx.Option {
	return fx.Module("broker",
		fx.Provide(
			service.NewClient,
		),
		fx.Invoke(func(lc fx.Lifecycle, c *service.Client, log *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					if err := c.Login(ctx); err != nil {
						return fmt.Errorf("broker login: %w", err)
					}
					return nil
				},
				OnStop: func(ctx context.Context) error {
					if err := c.Shutdown(ctx); err != nil {
						log.Warn("broker shutdown", zap.Error(err))
					}
					return nil
				},
			})
		}),
	)
}
