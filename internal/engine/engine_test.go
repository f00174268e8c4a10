package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chidi150c/bartest/internal/bars"
	"github.com/chidi150c/bartest/internal/strategy"
)

func bar(day int, close float64) bars.Bar {
	return bars.Bar{
		DateTime: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Open:     close,
		High:     close,
		Low:      close,
		Close:    close,
		Volume:   1,
	}
}

// buyOnceStrategy buys a single market order on bar index 0 and never
// trades again, tracking every hook invocation for assertions.
type buyOnceStrategy struct {
	starts, stops int
	orderEvents   []strategy.OrderEvent
	trades        []bars.Trade
}

func (s *buyOnceStrategy) OnStart(ctx strategy.Context) { s.starts++ }
func (s *buyOnceStrategy) OnStop()                      { s.stops++ }
func (s *buyOnceStrategy) OnOrder(evt strategy.OrderEvent) {
	s.orderEvents = append(s.orderEvents, evt)
}
func (s *buyOnceStrategy) OnTrade(trade bars.Trade) { s.trades = append(s.trades, trade) }

func (s *buyOnceStrategy) Next(bar bars.Bar, ctx strategy.Context) strategy.Action {
	if ctx.BarIndex == 0 {
		return strategy.SideTag(bars.Buy)
	}
	return strategy.None()
}

func TestRunSingleFeedBuyAndHold(t *testing.T) {
	cfg := bars.Config{Cash: 10000, CommissionRate: 0, SlippageBps: 0, BatchSize: 2}
	data := []bars.Bar{bar(1, 100), bar(2, 110), bar(3, 120)}
	strat := &buyOnceStrategy{}

	result, err := Run(cfg, data, strat)
	require.NoError(t, err)

	assert.Equal(t, 1, strat.starts)
	assert.Equal(t, 1, strat.stops)
	assert.Len(t, strat.trades, 1)
	assert.Equal(t, 1.0, result.Position)
	assert.Equal(t, 100.0, result.AvgCost)
	// invariant #1: equity_curve length == ticks processed
	assert.Len(t, result.EquityCurve, len(data))
	// final equity == cash + position*last close
	assert.InDelta(t, result.Cash+result.Position*120, result.Equity, 1e-9)
}

// panicOnNext always panics from Next, exercising the fatal Next-failure
// path: a Next/NextMulti panic aborts the run.
type panicOnNext struct{}

func (panicOnNext) Next(bar bars.Bar, ctx strategy.Context) strategy.Action {
	panic("boom")
}

func TestRunAbortsOnStrategyPanicInNext(t *testing.T) {
	cfg := bars.Config{Cash: 1000, BatchSize: 10}
	data := []bars.Bar{bar(1, 10)}
	_, err := Run(cfg, data, panicOnNext{})
	require.Error(t, err)
	assert.ErrorIs(t, err, bars.ErrStrategyFault)
}

// panicOnOrderHook panics only from its optional OnOrder hook; the run
// must continue because optional-hook failures are swallowed.
type panicOnOrderHook struct{}

func (panicOnOrderHook) Next(bar bars.Bar, ctx strategy.Context) strategy.Action {
	if ctx.BarIndex == 0 {
		return strategy.SideTag(bars.Buy)
	}
	return strategy.None()
}
func (panicOnOrderHook) OnOrder(evt strategy.OrderEvent) { panic("order hook boom") }

func TestRunSurvivesOptionalHookPanic(t *testing.T) {
	cfg := bars.Config{Cash: 1000, BatchSize: 10}
	data := []bars.Bar{bar(1, 10), bar(2, 12)}
	result, err := Run(cfg, data, panicOnOrderHook{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Position)
}
