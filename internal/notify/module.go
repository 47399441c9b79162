package notify

import (
	"context"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health/service"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// New Telegram, если есть токен и чат, иначе Stdout.
func New(lc fx.Lifecycle, cfg *config.Config, state *service.State, log *zap.Logger) Notifier {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		log.Info("telegram not configured, notifications go to log")
		return NewStdout(log)
	}

	tg, err := NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, state.Status, log)
	if err != nil {
		log.Warn("telegram init failed, notifications go to log", zap.Error(err))
		return NewStdout(log)
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return tg.Start(ctx)
		},
		OnStop: func(context.Context) error {
			cancel()
			tg.Stop()
			return nil
		},
	})
	return tg
}

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(New),
	)
}
