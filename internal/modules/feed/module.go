package feed

import (
	"signal_bot/internal/modules/feed/service"

	"go.uber.org/fx"
)

// Module клиент фида торговых идей.
func Module() fx.Option {
	return fx.Module("feed",
		fx.Provide(
			service.NewClient,
		),
	)
}
