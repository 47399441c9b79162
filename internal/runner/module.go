package runner

import (
	"context"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/notify"
	"signal_bot/internal/placement"
	"signal_bot/internal/scoring"

	brokersvc "signal_bot/internal/modules/broker/service"
	feedsvc "signal_bot/internal/modules/feed/service"
	healthsvc "signal_bot/internal/modules/health/service"
	historysvc "signal_bot/internal/modules/history/service"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewPlacer(cfg *config.Config, b *brokersvc.Client, log *zap.Logger) *placement.Placer {
	return placement.NewPlacer(b, placement.Options{
		TargetRisk:   cfg.Trading.TargetRisk,
		Deviation:    cfg.Trading.Deviation,
		MagicMarket:  cfg.Trading.MagicMarket,
		MagicPending: cfg.Trading.MagicPending,
	}, log)
}

func NewRunner(
	cfg *config.Config,
	feed *feedsvc.Client,
	history *historysvc.History,
	gate *scoring.Gate,
	placer *placement.Placer,
	broker *brokersvc.Client,
	n notify.Notifier,
	state *healthsvc.State,
	log *zap.Logger,
) *Runner {
	return New(Deps{
		Feed:         feed,
		History:      history,
		Gate:         gate,
		Placer:       placer,
		Broker:       broker,
		Notifier:     n,
		State:        state,
		Log:          log,
		TargetRisk:   cfg.Trading.TargetRisk,
		PollInterval: cfg.Trading.PollInterval,
	})
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewPlacer,
			NewRunner,
		),
		fx.Invoke(func(lc fx.Lifecycle, r *Runner, sh fx.Shutdowner, log *zap.Logger) {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})

			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						defer close(done)
						if err := r.Start(ctx); err != nil {
							log.Error("runner exited", zap.Error(err))
							_ = sh.Shutdown(fx.ExitCode(1))
						}
					}()
					return nil
				},
				OnStop: func(stopCtx context.Context) error {
					cancel()
					select {
					case <-done:
					case <-stopCtx.Done():
					}
					return nil
				},
			})
		}),
	)
}
