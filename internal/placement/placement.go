package placement

import (
	"context"
	"fmt"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/internal/sizing"
	"signal_bot/pkg/tracing"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Состояния обработки сигнала. Только вперёд, без возвратов.
const (
	StateSized            = "sized"
	StateGated            = "gated"
	StateMarketAttempted  = "market_attempted"
	StatePendingAttempted = "pending_attempted"
	StateDone             = "done"
)

const (
	ReasonRejected = "rejected by scorer"

	// MT5 режет comment до 31 символа
	maxCommentLen = 31
)

// Порядок перебора режимов исполнения для рыночной ноги.
var marketFillingModes = []models.FillingMode{
	models.FillingReturn,
	models.FillingFOK,
	models.FillingIOC,
}

// Broker всё, что нужно для выставления обеих ног.
type Broker interface {
	sizing.Broker
	Tick(ctx context.Context, symbol string) (models.Tick, error)
	OrderSend(ctx context.Context, req models.OrderRequest) (models.OrderResult, error)
}

type Options struct {
	TargetRisk   float64
	Deviation    int
	MagicMarket  int64
	MagicPending int64
}

// Placer выставляет пару ордеров (рынок + отложка) по одобренному сигналу.
type Placer struct {
	broker Broker
	opts   Options
	log    *zap.Logger
}

func NewPlacer(broker Broker, opts Options, log *zap.Logger) *Placer {
	return &Placer{broker: broker, opts: opts, log: log.Named("placement")}
}

// Place проводит сигнал до Done. Ноги независимы: неудача рынка не мешает отложке.
func (p *Placer) Place(
	ctx context.Context,
	sig models.TradeSignal,
	sz models.SizingResult,
	decision models.ScoringDecision,
) models.SignalResult {
	res := models.SignalResult{
		SignalID: sig.ID,
		Decision: decision,
		Sizing:   &sz,
		Trace:    []string{StateSized, StateGated},
	}

	if !decision.Accepted {
		res.Reason = ReasonRejected
		res.Trace = append(res.Trace, StateDone)
		return res
	}

	market := p.placeMarket(ctx, sig, sz)
	res.Market = &market
	res.Trace = append(res.Trace, StateMarketAttempted)

	pending := p.placePending(ctx, sig)
	res.Pending = &pending
	res.Trace = append(res.Trace, StatePendingAttempted, StateDone)

	if !res.Success() {
		res.Reason = fmt.Sprintf("market: %s; pending: %s", market.FailureReason, pending.FailureReason)
	}
	return res
}

func (p *Placer) placeMarket(ctx context.Context, sig models.TradeSignal, sz models.SizingResult) (out models.OrderOutcome) {
	span, ctx := tracing.StartSpan(ctx, "placement.market")
	defer func() {
		span.SetTag("success", out.Success)
		span.Finish()
		countLeg(out)
	}()

	log := p.log.With(zap.String("signal_id", sig.ID), zap.String("symbol", sig.Symbol))

	tick, err := p.broker.Tick(ctx, sig.Symbol)
	if err != nil {
		return models.Failed(models.OrderKindMarket, "no tick: "+err.Error())
	}
	price := tick.Price(sig.Direction)
	if price <= 0 {
		return models.Failed(models.OrderKindMarket, fmt.Sprintf("invalid price %v", price))
	}

	req := models.OrderRequest{
		Action:    models.TradeActionDeal,
		Symbol:    sig.Symbol,
		Volume:    sz.Lot,
		Type:      models.MarketOrderType(sig.Direction),
		Price:     price,
		SL:        sig.Stop,
		TP:        sig.Target,
		Deviation: p.opts.Deviation,
		Magic:     p.opts.MagicMarket,
		TypeTime:  models.OrderTimeGTC,
		Comment:   comment(sig.ID, models.OrderKindMarket),
	}

	var reason string
	for i, mode := range marketFillingModes {
		req.TypeFilling = mode

		r, err := p.broker.OrderSend(ctx, req)
		switch {
		case err != nil:
			reason = err.Error()
		case r.Done():
			out = models.Succeeded(models.OrderKindMarket, r.Order)
			out.Lot, out.Price, out.OrderType, out.FillingMode, out.Attempts = req.Volume, price, req.Type, mode, i+1
			log.Info("market order placed",
				zap.Uint64("ticket", r.Order),
				zap.Stringer("filling", mode),
				zap.Float64("lot", req.Volume),
			)
			return out
		default:
			reason = rejection(r)
		}
		log.Debug("market attempt failed", zap.Stringer("filling", mode), zap.String("reason", reason))
	}

	out = models.Failed(models.OrderKindMarket, reason)
	out.Lot, out.Price, out.OrderType, out.Attempts = req.Volume, price, req.Type, len(marketFillingModes)
	log.Warn("market order failed in all filling modes", zap.String("reason", reason))
	return out
}

func (p *Placer) placePending(ctx context.Context, sig models.TradeSignal) (out models.OrderOutcome) {
	span, ctx := tracing.StartSpan(ctx, "placement.pending")
	defer func() {
		span.SetTag("success", out.Success)
		span.Finish()
		countLeg(out)
	}()

	log := p.log.With(zap.String("signal_id", sig.ID), zap.String("symbol", sig.Symbol))

	// лот пересчитываем заново: цены могли уйти с момента решения
	sz, err := sizing.Size(ctx, p.broker, sizing.Request{
		Symbol:     sig.Symbol,
		Direction:  sig.Direction,
		Entry:      sig.Entry,
		Stop:       sig.Stop,
		Target:     sig.Target,
		TargetRisk: p.opts.TargetRisk,
	})
	if err != nil {
		return models.Failed(models.OrderKindPending, err.Error())
	}

	tick, err := p.broker.Tick(ctx, sig.Symbol)
	if err != nil {
		return models.Failed(models.OrderKindPending, "no tick: "+err.Error())
	}
	current := tick.Price(sig.Direction)
	if current <= 0 {
		return models.Failed(models.OrderKindPending, fmt.Sprintf("invalid price %v", current))
	}

	req := models.OrderRequest{
		Action:      models.TradeActionPending,
		Symbol:      sig.Symbol,
		Volume:      sz.Lot,
		Type:        PendingOrderType(sig.Direction, sig.Entry, current),
		Price:       sig.Entry,
		SL:          sig.Stop,
		TP:          sig.Target,
		Deviation:   p.opts.Deviation,
		Magic:       p.opts.MagicPending,
		TypeTime:    models.OrderTimeGTC,
		TypeFilling: models.FillingReturn,
		Comment:     comment(sig.ID, models.OrderKindPending),
	}

	r, err := p.broker.OrderSend(ctx, req)
	switch {
	case err != nil:
		out = models.Failed(models.OrderKindPending, err.Error())
	case r.Done():
		out = models.Succeeded(models.OrderKindPending, r.Order)
		log.Info("pending order placed",
			zap.Uint64("ticket", r.Order),
			zap.Stringer("type", req.Type),
			zap.Float64("price", req.Price),
			zap.Float64("lot", req.Volume),
		)
	default:
		out = models.Failed(models.OrderKindPending, rejection(r))
	}
	out.Lot, out.Price, out.OrderType, out.FillingMode, out.Attempts = req.Volume, req.Price, req.Type, req.TypeFilling, 1

	if !out.Success {
		log.Warn("pending order failed", zap.String("reason", out.FailureReason))
	}
	return out
}

// PendingOrderType стоп, если вход дальше текущей цены по направлению сделки, иначе лимит.
func PendingOrderType(d models.Direction, entry, current float64) models.OrderType {
	if d == models.DirectionSell {
		if entry < current {
			return models.OrderTypeSellStop
		}
		return models.OrderTypeSellLimit
	}
	if entry > current {
		return models.OrderTypeBuyStop
	}
	return models.OrderTypeBuyLimit
}

// rejection причина отказа брокера по retcode, завёрнутая в ErrBrokerRejected.
func rejection(r models.OrderResult) string {
	return errors.Wrapf(models.ErrBrokerRejected, "retcode %d: %s", r.Retcode, r.Comment).Error()
}

func comment(id string, kind models.OrderKind) string {
	c := id + "_" + string(kind)
	if len(c) > maxCommentLen {
		c = c[:maxCommentLen]
	}
	return c
}

func countLeg(o models.OrderOutcome) {
	result := "failed"
	if o.Success {
		result = "ok"
	}
	metrics.OrdersTotal.WithLabelValues(string(o.Kind), result).Inc()
}
