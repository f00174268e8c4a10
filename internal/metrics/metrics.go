// Package metrics exposes Prometheus gauges/counters the engine updates
// while a run is in flight. Registered once at init() and served by
// promhttp.Handler() from cmd/bartest.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Equity reports the current equity snapshot for the active run.
	Equity = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bartest_equity",
		Help: "Current equity (cash + mark-to-market positions) for the active run.",
	})

	// Drawdown is registered for the current fractional drawdown from the
	// running peak. The engine does not set it, so it stays at 0.
	Drawdown = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bartest_drawdown",
		Help: "Current fractional drawdown from the running equity peak.",
	})

	// OrdersTotal counts orders submitted, split by side.
	OrdersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bartest_orders_total",
		Help: "Orders submitted, split by side.",
	}, []string{"side"})

	// FillsTotal counts fills, split by side.
	FillsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bartest_fills_total",
		Help: "Fills executed, split by side.",
	}, []string{"side"})

	// TicksTotal counts ticks processed across all runs in the process.
	TicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bartest_ticks_total",
		Help: "Ticks (bars or joint-timeline steps) processed across all runs.",
	})
)

func init() {
	prometheus.MustRegister(Equity, Drawdown, OrdersTotal, FillsTotal, TicksTotal)
}
