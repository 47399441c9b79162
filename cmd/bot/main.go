package main

import (
	"log"

	"signal_bot/internal/modules/broker"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/feed"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/history"
	"signal_bot/internal/modules/scorer"
	"signal_bot/internal/notify"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger.SetServiceName(cfg.Service.Name)
	tracing.SetServiceName(cfg.Service.Name)
	return logger.New(cfg.Service.LogLevel)
}

func newTracer(lc fx.Lifecycle, cfg *config.Config) (opentracing.Tracer, error) {
	tracer, closer, err := tracing.InitTracer(tracing.Config{
		Enabled: cfg.Tracing.Enabled,
		Host:    cfg.Tracing.Host,
		Port:    cfg.Tracing.Port,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(closer))
	return tracer, nil
}

func main() {
	app := fx.New(
		config.Module(),
		fx.Provide(
			newLogger,
			newTracer,
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Invoke(func(opentracing.Tracer) {}),

		health.Module(),
		notify.Module(),
		broker.Module(),
		feed.Module(),
		scorer.Module(),
		history.Module(),
		runner.Module(),
	)

	if err := app.Err(); err != nil {
		log.Fatal(err)
	}
	app.Run()
}
