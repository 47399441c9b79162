package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signal_bot_cycles_total", Help: "Polling cycles by result"},
		[]string{"result"}, // ok | feed_error
	)
	FeedPagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signal_bot_feed_pages_total", Help: "Feed page fetches"},
		[]string{"result"}, // ok | error
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signal_bot_signals_total", Help: "Signals by final status"},
		[]string{"status"}, // skipped | infeasible | rejected | placed | failed
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signal_bot_orders_total", Help: "Order legs submitted"},
		[]string{"kind", "result"},
	)
	ScoreProbability = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "signal_bot_score_probability",
			Help:    "Scorer probabilities",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)
	HistoryErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "signal_bot_history_errors_total", Help: "Failed history writes"},
	)
	ProcessedIDs = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "signal_bot_processed_ids", Help: "Size of the processed set"},
	)
)

func init() {
	prometheus.MustRegister(
		CyclesTotal,
		FeedPagesTotal,
		SignalsTotal,
		OrdersTotal,
		ScoreProbability,
		HistoryErrorsTotal,
		ProcessedIDs,
	)
}

// Handler /metrics в формате Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
