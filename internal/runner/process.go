package runner

import (
	"context"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/internal/notify"
	"signal_bot/internal/placement"
	"signal_bot/internal/scoring"
	"signal_bot/internal/sizing"
	"signal_bot/pkg/tracing"

	"go.uber.org/zap"
)

const (
	reasonInfeasible = "sizing infeasible"
	reasonRejected   = placement.ReasonRejected
)

// process сайзинг => скорер => ордера. Ошибки здесь не фатальны: итог всегда SignalResult.
func (r *Runner) process(ctx context.Context, sig models.TradeSignal) (res models.SignalResult) {
	span, ctx := tracing.StartSpan(ctx, "runner.signal")
	span.SetTag("signal_id", sig.ID)
	span.SetTag("symbol", sig.Symbol)
	defer span.Finish()

	log := r.log.With(
		zap.String("signal_id", sig.ID),
		zap.String("symbol", sig.Symbol),
		zap.String("direction", string(sig.Direction)),
	)

	sz, err := sizing.Size(ctx, r.Broker, sizing.Request{
		Symbol:     sig.Symbol,
		Direction:  sig.Direction,
		Entry:      sig.Entry,
		Stop:       sig.Stop,
		Target:     sig.Target,
		TargetRisk: r.TargetRisk,
	})
	if err != nil {
		log.Warn("sizing infeasible", zap.Error(err))
		metrics.SignalsTotal.WithLabelValues("infeasible").Inc()
		return models.SignalResult{SignalID: sig.ID, Reason: reasonInfeasible}
	}

	decision := r.Gate.Evaluate(ctx, scoring.AttributesOf(sig, sz))
	log.Info("scored",
		zap.Bool("available", decision.Available),
		zap.Float64("probability", decision.Probability),
		zap.Bool("accepted", decision.Accepted),
		zap.Float64("lot", sz.Lot),
		zap.Float64("risk_loss", sz.RiskLoss),
		zap.Float64("risk_profit", sz.RiskProfit),
	)

	res = r.Placer.Place(ctx, sig, sz, decision)

	switch {
	case !decision.Accepted:
		metrics.SignalsTotal.WithLabelValues("rejected").Inc()
		return res
	case res.Success():
		metrics.SignalsTotal.WithLabelValues("placed").Inc()
		log.Info("trade executed", zap.Float64("probability", decision.Probability))
	default:
		metrics.SignalsTotal.WithLabelValues("failed").Inc()
		log.Warn("trade failed", zap.String("reason", res.Reason))
	}

	if r.Notifier != nil {
		r.Notifier.Send(notify.TradeMessage(sig, res))
	}
	return res
}
