// Package engine implements the event-driven simulation loop: the
// single-feed replay and the multi-feed joint-timeline scheduler, as a
// bar-by-bar stepping loop with Prometheus gauge updates per tick and one
// summary log line when a run completes.
package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/chidi150c/bartest/internal/bars"
	"github.com/chidi150c/bartest/internal/ledger"
	"github.com/chidi150c/bartest/internal/logging"
	"github.com/chidi150c/bartest/internal/matcher"
	"github.com/chidi150c/bartest/internal/metrics"
	"github.com/chidi150c/bartest/internal/stats"
	"github.com/chidi150c/bartest/internal/strategy"
)

var log = logging.New("ENGINE")

// defaultSymbol is used when neither the bar nor the order names a symbol.
const defaultSymbol = "DEFAULT"

// Result is the single-feed run's output bundle.
type Result struct {
	RunID       string
	Cash        float64
	Position    float64
	AvgCost     float64
	Equity      float64
	RealizedPnL float64
	EquityCurve []bars.EquityPoint
	Trades      []bars.Trade
	Stats       stats.Result
}

// orderSeq assigns strictly increasing IDs starting at 1 within one run.
type orderSeq struct{ next int64 }

func newOrderSeq() *orderSeq { return &orderSeq{next: 1} }

func (s *orderSeq) take() int64 {
	id := s.next
	s.next++
	return id
}

// Run drives strat over data bar-by-bar. Bars may be grouped into
// cfg.BatchSize chunks for host-boundary efficiency only; the observable
// result is identical regardless of batch size.
func Run(cfg bars.Config, data []bars.Bar, strat strategy.Strategy) (Result, error) {
	runID := uuid.New().String()
	l := ledger.New(cfg.Cash)
	seq := newOrderSeq()
	var trades []bars.Trade
	var curve []bars.EquityPoint

	ctx0 := strategy.Context{Position: 0, AvgCost: 0, Cash: cfg.Cash, Equity: cfg.Cash, BarIndex: 0}
	callOnStartSafe(strat, ctx0)

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = len(data)
		if batch == 0 {
			batch = 1
		}
	}

	var runErr error
	for start := 0; start < len(data) && runErr == nil; start += batch {
		end := start + batch
		if end > len(data) {
			end = len(data)
		}
		for i := start; i < end; i++ {
			bar := data[i]
			symbol := bar.Symbol
			if symbol == "" {
				symbol = defaultSymbol
			}
			entry := l.Entry(symbol)
			equity := l.Cash + entry.Position*bar.Close
			ctx := strategy.Context{
				Position: entry.Position,
				AvgCost:  entry.AvgCost,
				Cash:     l.Cash,
				Equity:   equity,
				BarIndex: i,
			}

			action, err := callNext(strat, bar, ctx)
			if err != nil {
				runErr = fmt.Errorf("%w: %v", bars.ErrStrategyFault, err)
				break
			}

			requests := strategy.Resolve(action, symbol, bar.Close)
			for _, req := range requests {
				order := toOrder(req, seq.take())
				callOnOrderSafe(strat, strategy.OrderEvent{Event: "submitted", OrderID: order.ID, Symbol: order.Symbol})
				metrics.OrdersTotal.WithLabelValues(order.Side.String()).Inc()

				fillPrice, fillSize, ok := matcher.Match(order, bar.Close)
				if !ok {
					continue
				}
				execPrice := matcher.ApplySlippage(fillPrice, order.Side, cfg.SlippageBps)
				commission := matcher.Commission(execPrice, fillSize, cfg.CommissionRate)
				l.ApplyFill(order.Symbol, toLedgerSide(order.Side), execPrice, fillSize, commission)

				trade := bars.Trade{OrderID: order.ID, Side: order.Side, Price: execPrice, Size: fillSize, Symbol: order.Symbol}
				trades = append(trades, trade)
				metrics.FillsTotal.WithLabelValues(order.Side.String()).Inc()
				callOnTradeSafe(strat, trade)
				callOnOrderSafe(strat, strategy.OrderEvent{Event: "filled", OrderID: order.ID, Symbol: order.Symbol})
			}

			finalEntry := l.Entry(symbol)
			tickEquity := l.Cash + finalEntry.Position*bar.Close
			curve = append(curve, bars.EquityPoint{DateTime: bar.DateTime, Equity: tickEquity})
			metrics.Equity.Set(tickEquity)
			metrics.TicksTotal.Inc()
		}
	}

	callOnStopSafe(strat)

	if runErr != nil {
		return Result{}, runErr
	}

	finalEntry := l.Entry(defaultSymbolOf(data))
	result := Result{
		RunID:       runID,
		Cash:        l.Cash,
		Position:    finalEntry.Position,
		AvgCost:     finalEntry.AvgCost,
		Equity:      l.Equity(lastCloseMap(data)),
		RealizedPnL: l.RealizedPnL,
		EquityCurve: curve,
		Trades:      trades,
		Stats:       stats.Compute(curve, trades),
	}
	log.Info("run %s complete: %d ticks, %d trades, equity=%.2f", runID, len(curve), len(trades), result.Equity)
	return result, nil
}

func defaultSymbolOf(data []bars.Bar) string {
	if len(data) == 0 {
		return defaultSymbol
	}
	if s := data[0].Symbol; s != "" {
		return s
	}
	return defaultSymbol
}

func lastCloseMap(data []bars.Bar) map[string]float64 {
	out := map[string]float64{}
	if len(data) == 0 {
		return out
	}
	symbol := defaultSymbolOf(data)
	out[symbol] = data[len(data)-1].Close
	return out
}

func toOrder(req strategy.OrderRequest, id int64) bars.Order {
	return bars.Order{
		ID:         id,
		Side:       req.Side,
		Type:       req.Type,
		Size:       req.Size,
		LimitPrice: req.Price,
		Status:     bars.Submitted,
		Symbol:     req.Symbol,
	}
}

func toLedgerSide(side bars.OrderSide) ledger.Side {
	if side == bars.Sell {
		return ledger.Sell
	}
	return ledger.Buy
}
