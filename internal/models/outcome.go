package models

import "strconv"

// SizingResult размер позиции и её риск. Никуда не сохраняется.
type SizingResult struct {
	Lot             float64
	RiskLoss        float64
	RiskProfit      float64
	RiskRewardRatio float64
}

type OrderKind string

const (
	OrderKindMarket  OrderKind = "market"
	OrderKindPending OrderKind = "pending"
)

// OrderOutcome итог одной ноги. BrokerOrderID есть только при Success,
// FailureReason только при неуспехе.
type OrderOutcome struct {
	Kind          OrderKind
	Success       bool
	BrokerOrderID string
	FailureReason string

	Lot         float64
	Price       float64
	OrderType   OrderType
	FillingMode FillingMode
	Attempts    int
}

// Succeeded успешная нога с тикетом брокера.
func Succeeded(kind OrderKind, order uint64) OrderOutcome {
	return OrderOutcome{Kind: kind, Success: true, BrokerOrderID: strconv.FormatUint(order, 10)}
}

// Failed неуспешная нога с причиной.
func Failed(kind OrderKind, reason string) OrderOutcome {
	return OrderOutcome{Kind: kind, FailureReason: reason}
}

// SignalResult общий итог обработки сигнала: пара ног + решение скорера.
type SignalResult struct {
	SignalID string
	Decision ScoringDecision
	Sizing   *SizingResult
	Market   *OrderOutcome
	Pending  *OrderOutcome
	Reason   string
	Trace    []string
}

// Success хотя бы одна нога прошла.
func (r SignalResult) Success() bool {
	return (r.Market != nil && r.Market.Success) || (r.Pending != nil && r.Pending.Success)
}
