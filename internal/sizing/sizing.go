package sizing

import (
	"context"
	"math"

	"signal_bot/internal/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Broker то, что сайзингу нужно от брокера.
type Broker interface {
	SelectSymbol(ctx context.Context, symbol string) error
	SymbolConstraints(ctx context.Context, symbol string) (models.SymbolConstraints, error)
	CalcProfit(ctx context.Context, direction models.Direction, symbol string, volume, priceOpen, priceClose float64) (float64, error)
}

type Request struct {
	Symbol     string
	Direction  models.Direction
	Entry      float64
	Stop       float64
	Target     float64 // 0 => тейка нет
	TargetRisk float64 // сколько теряем по стопу, в валюте счёта
}

// Size лот под заданный риск.
//
// Лот при MinLot даёт убыток riskAtMinLot до стопа, идеальный лот
// MinLot*TargetRisk/riskAtMinLot округляется до ближайшего кратного LotStep
// (половинки к чётному) и зажимается в [MinLot, MaxLot]. Риски считаются уже
// на итоговом лоте. Любая невозможность посчитать => ErrSizingInfeasible.
func Size(ctx context.Context, b Broker, req Request) (models.SizingResult, error) {
	if req.Stop <= 0 {
		return models.SizingResult{}, errors.Wrap(models.ErrSizingInfeasible, "stop <= 0")
	}
	if req.TargetRisk <= 0 {
		return models.SizingResult{}, errors.Wrap(models.ErrSizingInfeasible, "target risk <= 0")
	}

	if err := b.SelectSymbol(ctx, req.Symbol); err != nil {
		return models.SizingResult{}, errors.Wrap(models.ErrSizingInfeasible, err.Error())
	}
	sc, err := b.SymbolConstraints(ctx, req.Symbol)
	if err != nil {
		return models.SizingResult{}, errors.Wrap(models.ErrSizingInfeasible, err.Error())
	}
	if !sc.Valid() {
		return models.SizingResult{}, errors.Wrapf(models.ErrSizingInfeasible, "%s: bad constraints %+v", req.Symbol, sc)
	}

	riskAtMin, err := b.CalcProfit(ctx, req.Direction, req.Symbol, sc.MinLot, req.Entry, req.Stop)
	if err != nil {
		return models.SizingResult{}, errors.Wrap(models.ErrSizingInfeasible, err.Error())
	}
	riskAtMin = math.Abs(riskAtMin)
	if riskAtMin == 0 || math.IsNaN(riskAtMin) || math.IsInf(riskAtMin, 0) {
		return models.SizingResult{}, errors.Wrapf(models.ErrSizingInfeasible, "%s: zero risk at min lot", req.Symbol)
	}

	ideal := decimal.NewFromFloat(sc.MinLot).
		Mul(decimal.NewFromFloat(req.TargetRisk)).
		Div(decimal.NewFromFloat(riskAtMin))
	lot := NormalizeLot(ideal, sc)

	out := models.SizingResult{Lot: lot}
	out.RiskLoss = risk(ctx, b, req, lot, req.Stop)
	if req.Target > 0 {
		out.RiskProfit = risk(ctx, b, req, lot, req.Target)
	}
	if out.RiskLoss > 0 {
		out.RiskRewardRatio = round2(out.RiskProfit / out.RiskLoss)
	}
	return out, nil
}

// NormalizeLot ближайшее кратное LotStep (банковское округление), зажатое в [MinLot, MaxLot].
func NormalizeLot(ideal decimal.Decimal, sc models.SymbolConstraints) float64 {
	step := decimal.NewFromFloat(sc.LotStep)
	minLot := decimal.NewFromFloat(sc.MinLot)
	maxLot := decimal.NewFromFloat(sc.MaxLot)

	lot := ideal.Div(step).RoundBank(0).Mul(step)
	if lot.LessThan(minLot) {
		lot = minLot
	}
	if lot.GreaterThan(maxLot) {
		lot = maxLot
	}
	f, _ := lot.Float64()
	return f
}

// risk |P/L| при движении lot от входа до price. Недоступен => 0.
func risk(ctx context.Context, b Broker, req Request, lot, price float64) float64 {
	if lot <= 0 || req.Entry <= 0 || price <= 0 {
		return 0
	}
	p, err := b.CalcProfit(ctx, req.Direction, req.Symbol, lot, req.Entry, price)
	if err != nil {
		return 0
	}
	return round2(math.Abs(p))
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).RoundBank(2).Float64()
	return f
}
