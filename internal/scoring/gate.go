package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/pkg/tracing"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// unknownCategoryCode подставляется вместо незнакомой категории.
const unknownCategoryCode = 0

// Gate решает, пропускать ли сигнал к исполнению.
type Gate struct {
	scorer    Scorer
	encoder   CategoricalEncoder
	scaler    NumericScaler
	threshold float64
	log       *zap.Logger
	now       func() time.Time
}

func NewGate(scorer Scorer, encoder CategoricalEncoder, scaler NumericScaler, threshold float64, log *zap.Logger) *Gate {
	return &Gate{
		scorer:    scorer,
		encoder:   encoder,
		scaler:    scaler,
		threshold: threshold,
		log:       log.Named("gate"),
		now:       time.Now,
	}
}

// Evaluate никогда не возвращает ошибку: сбой скорера = отказ с Available=false.
func (g *Gate) Evaluate(ctx context.Context, a Attributes) models.ScoringDecision {
	span, _ := tracing.StartSpan(ctx, "gate.Evaluate")
	now := g.now()

	prob, err := g.predict(a, now)
	tracing.Finish(span, err)

	if err != nil {
		g.log.Warn("scorer unavailable, rejecting",
			zap.String("symbol", a.Symbol),
			zap.Error(err),
		)
		return models.ScoringDecision{EvaluatedAt: now}
	}

	metrics.ScoreProbability.Observe(prob)
	return models.ScoringDecision{
		Probability: prob,
		Available:   true,
		Accepted:    prob >= g.threshold,
		EvaluatedAt: now,
	}
}

func (g *Gate) predict(a Attributes, now time.Time) (float64, error) {
	vec, err := g.vector(a, now)
	if err != nil {
		return 0, err
	}
	p, err := g.scorer.Predict(vec)
	if err != nil {
		return 0, errors.Wrap(err, "predict")
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("probability out of range: %v", p)
	}
	return p, nil
}

// vector собирает признаки в порядке, который ждёт модель.
func (g *Gate) vector(a Attributes, now time.Time) ([]float64, error) {
	num := a.numerics(now)

	raw := make([]float64, len(numericColumns))
	for i, c := range numericColumns {
		raw[i] = num[c]
	}
	scaled, err := g.scaler.Transform(numericColumns, raw)
	if err != nil {
		return nil, errors.Wrap(err, "scale")
	}
	if len(scaled) != len(numericColumns) {
		return nil, fmt.Errorf("scaler returned %d values for %d columns", len(scaled), len(numericColumns))
	}

	values := make(map[string]float64, len(numericColumns)+len(categoricalColumns))
	for i, c := range numericColumns {
		values[c] = scaled[i]
	}

	for col, val := range a.categoricals() {
		code, err := g.encoder.Encode(col, val)
		if err != nil {
			if errors.Is(err, models.ErrUnknownCategory) {
				g.log.Warn("unknown category, using fallback",
					zap.String("column", col),
					zap.String("value", val),
				)
			} else {
				g.log.Warn("encode failed, using fallback",
					zap.String("column", col),
					zap.Error(err),
				)
			}
			code = unknownCategoryCode
		}
		values[col] = code
	}

	features := g.scorer.Features()
	vec := make([]float64, len(features))
	for i, name := range features {
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("feature %q is not produced", name)
		}
		vec[i] = v
	}
	return vec, nil
}
