package history

import (
	"context"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/history/service"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module история обработанных сигналов. Бэкенд выбирается history.backend.
func Module() fx.Option {
	return fx.Module("history",
		fx.Provide(
			func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*service.History, error) {
				backend, err := service.Open(context.Background(), service.OptionsFrom(cfg))
				if err != nil {
					return nil, err
				}
				h := service.NewHistory(backend, log)
				lc.Append(fx.Hook{
					OnStop: func(ctx context.Context) error {
						return h.Close()
					},
				})
				return h, nil
			},
		),
	)
}
