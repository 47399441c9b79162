package scoring

import (
	"math"
	"time"

	"signal_bot/internal/models"
)

// Имена колонок зашиты в артефакты модели, менять только вместе с ними.
const (
	colSymbol    = "ativo"
	colName      = "name"
	colDirection = "tipo"
	colTimeframe = "timeframe"
	colSetup     = "setup"
)

var categoricalColumns = []string{colSymbol, colName, colDirection, colTimeframe, colSetup}

var numericColumns = []string{
	"nivelDeEntrada", "stopLoss", "nivelDeAlvo",
	"riscoLoss", "riscoProfit",
	"risk_reward_ratio", "alvo_distancia",
	"stop_distancia", "alvo_stop_ratio",
	"entrada_stop_diff", "entrada_alvo_diff",
	"alvo_stop_diff", "abs_profit_loss_ratio",
	"distancia_total", "stop_pct", "alvo_pct",
	"dayofweek", "hour", "is_weekend", "is_morning",
	"range_trade", "spread_stop_alvo",
	"spread_stop_entrada", "spread_alvo_entrada",
}

const eps = 1e-6

// Attributes то, что знаем о сигнале в момент решения.
type Attributes struct {
	Symbol    string
	Name      string
	Direction models.Direction
	Timeframe string
	Setup     string

	Entry      float64
	Stop       float64
	Target     float64
	RiskLoss   float64
	RiskProfit float64

	CreatedAt time.Time // zero => now
}

// AttributesOf собирает атрибуты из сигнала и сайзинга.
func AttributesOf(s models.TradeSignal, sz models.SizingResult) Attributes {
	return Attributes{
		Symbol:     s.Symbol,
		Name:       s.SymbolName,
		Direction:  s.Direction,
		Timeframe:  s.Timeframe,
		Setup:      s.Setup,
		Entry:      s.Entry,
		Stop:       s.Stop,
		Target:     s.Target,
		RiskLoss:   sz.RiskLoss,
		RiskProfit: sz.RiskProfit,
	}
}

// directionLabel метки направления, на которых обучались энкодеры.
func directionLabel(d models.Direction) string {
	if d == models.DirectionBuy {
		return "compra"
	}
	return "venda"
}

func (a Attributes) categoricals() map[string]string {
	return map[string]string{
		colSymbol:    a.Symbol,
		colName:      a.Name,
		colDirection: directionLabel(a.Direction),
		colTimeframe: a.Timeframe,
		colSetup:     a.Setup,
	}
}

// numerics сырые числовые признаки, до скейлера.
func (a Attributes) numerics(now time.Time) map[string]float64 {
	at := a.CreatedAt
	if at.IsZero() {
		at = now
	}

	entry, stop, target := a.Entry, a.Stop, a.Target
	alvoDist := target - entry
	stopDist := entry - stop

	// понедельник = 0
	dow := (int(at.Weekday()) + 6) % 7
	hour := at.Hour()

	return map[string]float64{
		"nivelDeEntrada":        entry,
		"stopLoss":              stop,
		"nivelDeAlvo":           target,
		"riscoLoss":             a.RiskLoss,
		"riscoProfit":           a.RiskProfit,
		"risk_reward_ratio":     a.RiskProfit / (a.RiskLoss + eps),
		"alvo_distancia":        alvoDist,
		"stop_distancia":        stopDist,
		"alvo_stop_ratio":       alvoDist / (stopDist + eps),
		"entrada_stop_diff":     stopDist,
		"entrada_alvo_diff":     alvoDist,
		"alvo_stop_diff":        target - stop,
		"abs_profit_loss_ratio": math.Abs(a.RiskProfit) / (math.Abs(a.RiskLoss) + eps),
		"distancia_total":       math.Abs(alvoDist) + math.Abs(stopDist),
		"stop_pct":              safeDiv(stopDist, entry),
		"alvo_pct":              safeDiv(alvoDist, entry),
		"dayofweek":             float64(dow),
		"hour":                  float64(hour),
		"is_weekend":            boolFloat(dow >= 5),
		"is_morning":            boolFloat(hour >= 6 && hour <= 12),
		"range_trade":           safeDiv(target-stop, entry),
		"spread_stop_alvo":      target - stop,
		"spread_stop_entrada":   stopDist,
		"spread_alvo_entrada":   alvoDist,
	}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
