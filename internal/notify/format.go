package notify

import (
	"fmt"
	"strings"

	"signal_bot/internal/models"
)

// TradeMessage короткий отчёт по обработанному сигналу.
func TradeMessage(sig models.TradeSignal, res models.SignalResult) string {
	var b strings.Builder

	icon := "❌"
	if res.Success() {
		icon = "✅"
	}
	fmt.Fprintf(&b, "%s %s %s [%s] %s\n", icon, strings.ToUpper(string(sig.Direction)), sig.Symbol, sig.Timeframe, sig.Setup)
	fmt.Fprintf(&b, "entry=%g sl=%g tp=%g\n", sig.Entry, sig.Stop, sig.Target)

	if res.Decision.Available {
		fmt.Fprintf(&b, "Вероятность: %.1f%%\n", res.Decision.Probability*100)
	} else {
		b.WriteString("Вероятность: n/a\n")
	}
	if res.Sizing != nil {
		fmt.Fprintf(&b, "Лот: %g риск=%.2f профит=%.2f RR=%.2f\n",
			res.Sizing.Lot, res.Sizing.RiskLoss, res.Sizing.RiskProfit, res.Sizing.RiskRewardRatio)
	}
	writeLeg(&b, "Рынок", res.Market)
	writeLeg(&b, "Отложка", res.Pending)
	if res.Reason != "" {
		fmt.Fprintf(&b, "Причина: %s\n", res.Reason)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeLeg(b *strings.Builder, title string, o *models.OrderOutcome) {
	if o == nil {
		return
	}
	if o.Success {
		fmt.Fprintf(b, "%s: #%s %s lot=%g @ %g\n", title, o.BrokerOrderID, o.OrderType, o.Lot, o.Price)
		return
	}
	fmt.Fprintf(b, "%s: ошибка (%s)\n", title, o.FailureReason)
}
