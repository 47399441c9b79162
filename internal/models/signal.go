package models

import "time"

// Direction сторона сделки из фида.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

func (d Direction) Valid() bool { return d == DirectionBuy || d == DirectionSell }

// TradeSignal торговая идея из внешнего фида. После загрузки не меняется.
type TradeSignal struct {
	ID         string
	Symbol     string
	SymbolName string
	Direction  Direction
	Timeframe  string
	Setup      string

	Entry  float64
	Stop   float64
	Target float64 // 0 => тейка нет

	// метаданные источника, в логике не участвуют
	IdentifiedAt string
	Analysis     string
	TargetPeriod string
	ChartURL     string
}

// HasTarget у сигнала есть тейк.
func (s TradeSignal) HasTarget() bool { return s.Target > 0 }

// ScoringDecision результат проверки сигнала моделью.
type ScoringDecision struct {
	Probability float64
	Available   bool // false => скорер упал, вероятности нет
	Accepted    bool
	EvaluatedAt time.Time
}
