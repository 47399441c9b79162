package runner

import (
	"context"
	"time"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/health/service"
	"signal_bot/internal/notify"
	"signal_bot/internal/scoring"
	"signal_bot/internal/sizing"
	"signal_bot/pkg/tracing"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Feed interface {
	Endpoint(now time.Time) string
	FetchAll(ctx context.Context, endpoint string) ([]models.TradeSignal, error)
}

type History interface {
	Load(ctx context.Context) (models.ProcessedSet, error)
	Has(id string) bool
	MarkProcessed(ctx context.Context, id string) (int, error)
}

type Gate interface {
	Evaluate(ctx context.Context, a scoring.Attributes) models.ScoringDecision
}

type Placer interface {
	Place(ctx context.Context, sig models.TradeSignal, sz models.SizingResult, d models.ScoringDecision) models.SignalResult
}

type Deps struct {
	Feed     Feed
	History  History
	Gate     Gate
	Placer   Placer
	Broker   sizing.Broker
	Notifier notify.Notifier
	State    *service.State
	Log      *zap.Logger

	TargetRisk   float64
	PollInterval time.Duration
}

// Runner цикл: фид => фильтр по истории => сайзинг => скорер => ордера => история.
// Сигналы внутри цикла строго по одному.
type Runner struct {
	Deps
	log *zap.Logger
	now func() time.Time
}

func New(d Deps) *Runner {
	if d.State == nil {
		d.State = service.NewState()
	}
	if d.PollInterval <= 0 {
		d.PollInterval = 5 * time.Minute
	}
	return &Runner{Deps: d, log: d.Log.Named("runner"), now: time.Now}
}

// Start грузит историю и крутит циклы до отмены ctx.
func (r *Runner) Start(ctx context.Context) error {
	set, err := r.History.Load(ctx)
	if err != nil {
		return err
	}
	r.State.SetProcessed(len(set))
	metrics.ProcessedIDs.Set(float64(len(set)))
	r.State.SetReady(true)

	r.log.Info("runner started",
		zap.Int("processed", len(set)),
		zap.Duration("poll_interval", r.PollInterval),
	)

	for {
		if _, err := r.RunCycle(ctx); err != nil {
			r.log.Error("cycle failed", zap.Error(err))
		}

		t := time.NewTimer(r.PollInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			r.log.Info("runner stopped")
			return nil
		case <-t.C:
		}
	}
}

// RunCycle один проход по текущему фиду.
func (r *Runner) RunCycle(ctx context.Context) (stats service.CycleStats, err error) {
	span, ctx := tracing.StartSpan(ctx, "runner.cycle")
	stats.StartedAt = r.now()
	defer func() {
		stats.Duration = time.Since(stats.StartedAt)
		if err != nil {
			stats.Err = err.Error()
			metrics.CyclesTotal.WithLabelValues("feed_error").Inc()
		} else {
			metrics.CyclesTotal.WithLabelValues("ok").Inc()
		}
		r.State.RecordCycle(stats)
		tracing.Finish(span, err)
	}()

	signals, err := r.Feed.FetchAll(ctx, r.Feed.Endpoint(stats.StartedAt))
	if err != nil {
		return stats, errors.Wrap(err, "fetch feed")
	}
	stats.Fetched = len(signals)

	for _, sig := range signals {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		if r.History.Has(sig.ID) {
			metrics.SignalsTotal.WithLabelValues("skipped").Inc()
			continue
		}
		stats.New++

		res := r.process(ctx, sig)
		switch {
		case res.Success():
			stats.Placed++
		case res.Reason == reasonInfeasible || res.Reason == reasonRejected:
			stats.Rejected++
		default:
			stats.Failed++
		}

		n, err := r.History.MarkProcessed(ctx, sig.ID)
		if err != nil {
			metrics.HistoryErrorsTotal.Inc()
			r.log.Error("history persist failed", zap.String("signal_id", sig.ID), zap.Error(err))
		}
		r.State.SetProcessed(n)
		metrics.ProcessedIDs.Set(float64(n))
	}

	r.log.Info("cycle done",
		zap.Int("fetched", stats.Fetched),
		zap.Int("new", stats.New),
		zap.Int("placed", stats.Placed),
		zap.Int("rejected", stats.Rejected),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}
