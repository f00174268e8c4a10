package engine

import (
	"container/heap"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chidi150c/bartest/internal/bars"
	"github.com/chidi150c/bartest/internal/ledger"
	"github.com/chidi150c/bartest/internal/matcher"
	"github.com/chidi150c/bartest/internal/metrics"
	"github.com/chidi150c/bartest/internal/stats"
	"github.com/chidi150c/bartest/internal/strategy"
)

// heapThreshold is the feed count above which the joint scheduler switches
// from a linear scan to a min-heap.
const heapThreshold = 8

// MultiResult is the joint-timeline run's output bundle. Position and
// AvgCost are not meaningful portfolio-wide (see EquityCurve/Trades and the
// per-symbol snapshot in the last strategy callback for that detail).
type MultiResult struct {
	RunID       string
	Cash        float64
	RealizedPnL float64
	Equity      float64
	EquityCurve []bars.EquityPoint
	Trades      []bars.Trade
	Stats       stats.Result
}

type feedCursor struct {
	id     string
	bars   []bars.Bar
	cursor int
}

// RunMulti merges feeds (each ordered ascending by DateTime) into one
// monotonic stream and drives strat per tick. Below heapThreshold feeds it
// uses a linear scan to find the next tick's minimum datetime; above it, a
// min-heap keyed by (datetime, feed id).
func RunMulti(cfg bars.Config, feeds map[string][]bars.Bar, strat strategy.Strategy) (MultiResult, error) {
	runID := uuid.New().String()
	l := ledger.New(cfg.Cash)
	seq := newOrderSeq()
	lastPrices := map[string]float64{}
	var trades []bars.Trade
	var curve []bars.EquityPoint
	barIndex := 0

	cursors := make([]*feedCursor, 0, len(feeds))
	for id, data := range feeds {
		cursors = append(cursors, &feedCursor{id: id, bars: data})
	}

	useHeap := len(cursors) > heapThreshold
	var pq feedHeap
	if useHeap {
		pq = newFeedHeap(cursors)
	}

	callOnStartSafe(strat, strategy.Context{Cash: cfg.Cash, Equity: cfg.Cash})

	var runErr error
	for {
		var t int64
		var have bool
		if useHeap {
			t, have = pq.peekMinTime()
		} else {
			t, have = minPendingTime(cursors)
		}
		if !have {
			break
		}

		updateSlice := map[string]bars.Bar{}
		for _, fc := range cursors {
			for fc.cursor < len(fc.bars) && fc.bars[fc.cursor].DateTime.Unix() == t {
				bar := fc.bars[fc.cursor]
				updateSlice[fc.id] = bar
				symbol := bar.Symbol
				if symbol == "" {
					symbol = fc.id
				}
				lastPrices[symbol] = bar.Close
				fc.cursor++
				if useHeap {
					pq.update(fc)
				}
			}
		}
		if len(updateSlice) == 0 {
			break
		}

		positions := l.Positions()
		snapPositions := make(map[string]strategy.PositionSnapshot, len(positions))
		for sym, e := range positions {
			snapPositions[sym] = strategy.PositionSnapshot{Position: e.Position, AvgCost: e.AvgCost}
		}
		equity := l.Equity(lastPrices)
		ctx := strategy.MultiContext{
			Positions:  snapPositions,
			Cash:       l.Cash,
			Equity:     equity,
			LastPrices: lastPrices,
			BarIndex:   barIndex,
		}

		firstBar, defaultSym := firstUpdated(updateSlice)

		action, handled, err := callNextMulti(strat, updateSlice, ctx)
		if err != nil {
			runErr = fmt.Errorf("%w: %v", bars.ErrStrategyFault, err)
			break
		}
		if !handled {
			entry := positions[defaultSym]
			singleCtx := strategy.Context{
				Position: entry.Position,
				AvgCost:  entry.AvgCost,
				Cash:     l.Cash,
				Equity:   equity,
				BarIndex: barIndex,
			}
			action, err = callNext(strat, firstBar, singleCtx)
			if err != nil {
				runErr = fmt.Errorf("%w: %v", bars.ErrStrategyFault, err)
				break
			}
		}

		requests := strategy.Resolve(action, defaultSym, 0)
		for _, req := range requests {
			order := toOrder(req, seq.take())
			callOnOrderSafe(strat, strategy.OrderEvent{Event: "submitted", OrderID: order.ID, Symbol: order.Symbol})
			metrics.OrdersTotal.WithLabelValues(order.Side.String()).Inc()

			refPrice := lastPrices[order.Symbol]
			fillPrice, fillSize, ok := matcher.Match(order, refPrice)
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

		tickEquity := l.Equity(lastPrices)
		curve = append(curve, bars.EquityPoint{DateTime: unixToTime(t), Equity: tickEquity})
		metrics.Equity.Set(tickEquity)
		metrics.TicksTotal.Inc()
		barIndex++
	}

	callOnStopSafe(strat)

	if runErr != nil {
		return MultiResult{}, runErr
	}

	result := MultiResult{
		RunID:       runID,
		Cash:        l.Cash,
		RealizedPnL: l.RealizedPnL,
		Equity:      l.Equity(lastPrices),
		EquityCurve: curve,
		Trades:      trades,
		Stats:       stats.Compute(curve, trades),
	}
	log.Info("multi run %s complete: %d ticks, %d trades, equity=%.2f", runID, len(curve), len(trades), result.Equity)
	return result, nil
}

func firstUpdated(updateSlice map[string]bars.Bar) (bars.Bar, string) {
	// Deterministic choice isn't guaranteed by map iteration order alone.
	// RunMulti calls this every tick: the returned bar is what the
	// single-feed Next fallback receives, and the returned symbol is the
	// default for orders that name none. The lexicographically smallest
	// feed id is chosen for determinism.
	var bestID string
	var bestBar bars.Bar
	first := true
	for id, b := range updateSlice {
		if first || id < bestID {
			bestID = id
			bestBar = b
			first = false
		}
	}
	symbol := bestBar.Symbol
	if symbol == "" {
		symbol = bestID
	}
	return bestBar, symbol
}

func minPendingTime(cursors []*feedCursor) (int64, bool) {
	var min int64
	have := false
	for _, fc := range cursors {
		if fc.cursor >= len(fc.bars) {
			continue
		}
		t := fc.bars[fc.cursor].DateTime.Unix()
		if !have || t < min {
			min = t
			have = true
		}
	}
	return min, have
}

func unixToTime(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

// --- min-heap over feed cursors, keyed by (next datetime, feed id) ---

type feedHeap struct {
	items []*feedCursor
}

func newFeedHeap(cursors []*feedCursor) feedHeap {
	h := feedHeap{items: make([]*feedCursor, 0, len(cursors))}
	for _, fc := range cursors {
		if fc.cursor < len(fc.bars) {
			h.items = append(h.items, fc)
		}
	}
	heap.Init(&h)
	return h
}

func (h feedHeap) Len() int { return len(h.items) }
func (h feedHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	at, bt := a.bars[a.cursor].DateTime.Unix(), b.bars[b.cursor].DateTime.Unix()
	if at != bt {
		return at < bt
	}
	return a.id < b.id
}
func (h feedHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *feedHeap) Push(x interface{}) { h.items = append(h.items, x.(*feedCursor)) }
func (h *feedHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// peekMinTime returns the smallest pending datetime across the heap
// without consuming any cursor.
func (h feedHeap) peekMinTime() (int64, bool) {
	if len(h.items) == 0 {
		return 0, false
	}
	top := h.items[0]
	return top.bars[top.cursor].DateTime.Unix(), true
}

// update re-establishes heap order after fc's cursor advanced (or removes
// it from the heap once exhausted).
func (h *feedHeap) update(fc *feedCursor) {
	idx := -1
	for i, item := range h.items {
		if item == fc {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	if fc.cursor >= len(fc.bars) {
		heap.Remove(h, idx)
		return
	}
	heap.Fix(h, idx)
}
