package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTripZeroFeesAndSlippage(t *testing.T) {
	// Invariant 12: buy 1@p then sell 1@q with zero commission/slippage
	// yields realized_pnl = q-p and cash = initial + (q-p).
	l := New(10000)
	l.ApplyFill("X", Buy, 100, 1, 0)
	l.ApplyFill("X", Sell, 110, 1, 0)
	assert.InDelta(t, 10, l.RealizedPnL, 1e-9)
	assert.InDelta(t, 10010, l.Cash, 1e-9)
	assert.InDelta(t, 0, l.Entry("X").Position, 1e-9)
	assert.InDelta(t, 0, l.Entry("X").AvgCost, 1e-9)
}

func TestWeightedAverageCostOnPartialAdds(t *testing.T) {
	l := New(10000)
	l.ApplyFill("X", Buy, 100, 1, 0)
	l.ApplyFill("X", Buy, 200, 1, 0)
	e := l.Entry("X")
	assert.InDelta(t, 2, e.Position, 1e-9)
	assert.InDelta(t, 150, e.AvgCost, 1e-9)
}

func TestFlatPositionHasZeroAvgCost(t *testing.T) {
	l := New(1000)
	l.ApplyFill("X", Buy, 10, 2, 0)
	l.ApplyFill("X", Sell, 12, 2, 0)
	e := l.Entry("X")
	assert.InDelta(t, 0, e.Position, 1e-9)
	assert.InDelta(t, 0, e.AvgCost, 1e-9)
}

func TestShortClosingPnLNotBookedOnBuySide(t *testing.T) {
	// Open Question 1: shorts accumulate negative position but realized
	// PnL is only booked on closing longs (buys closing shorts do not
	// book PnL). This test documents that acknowledged asymmetry.
	l := New(1000)
	l.ApplyFill("X", Sell, 100, 1, 0) // open short, no prior long -> no PnL booked
	assert.InDelta(t, 0, l.RealizedPnL, 1e-9)
	e := l.Entry("X")
	assert.InDelta(t, -1, e.Position, 1e-9)
	l.ApplyFill("X", Buy, 90, 1, 0) // close short via buy -> not booked either
	assert.InDelta(t, 0, l.RealizedPnL, 1e-9)
}

func TestCommissionReducesCash(t *testing.T) {
	l := New(10000)
	l.ApplyFill("X", Buy, 100.1, 1, 0.1001)
	assert.InDelta(t, 10000-100.1-0.1001, l.Cash, 1e-9)
}

func TestEquityAcrossSymbols(t *testing.T) {
	l := New(1000)
	l.ApplyFill("A", Buy, 10, 1, 0)
	l.ApplyFill("B", Buy, 20, 2, 0)
	lastPrices := map[string]float64{"A": 12, "B": 22}
	assert.InDelta(t, l.Cash+1*12+2*22, l.Equity(lastPrices), 1e-9)
}
