package scorer

import (
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/scorer/service"
	"signal_bot/internal/scoring"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module грузит артефакты модели на старте и отдаёт готовый scoring.Gate.
// Битые или отсутствующие артефакты валят старт.
func Module() fx.Option {
	return fx.Module("scorer",
		fx.Provide(
			func(cfg *config.Config) (*service.Model, error) {
				return service.LoadModel(cfg.Scorer.ModelPath)
			},
			func(cfg *config.Config) (*service.LabelEncoders, error) {
				return service.LoadEncoders(cfg.Scorer.EncodersPath)
			},
			func(cfg *config.Config) (*service.StandardScaler, error) {
				return service.LoadScaler(cfg.Scorer.ScalerPath)
			},
			NewGate,
		),
	)
}

func NewGate(
	cfg *config.Config,
	m *service.Model,
	enc *service.LabelEncoders,
	sc *service.StandardScaler,
	log *zap.Logger,
) *scoring.Gate {
	log.Info("scorer loaded",
		zap.Int("features", len(m.Features())),
		zap.Float64("threshold", cfg.Scorer.Threshold),
	)
	return scoring.NewGate(m, enc, sc, cfg.Scorer.Threshold, log)
}
