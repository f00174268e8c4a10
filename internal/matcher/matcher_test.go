package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chidi150c/bartest/internal/bars"
)

func limitPrice(p float64) *float64 { return &p }

func TestMarketAlwaysFills(t *testing.T) {
	order := bars.Order{Type: bars.Market, Side: bars.Buy, Size: 2}
	price, size, ok := Match(order, 123.4)
	assert.True(t, ok)
	assert.Equal(t, 123.4, price)
	assert.Equal(t, 2.0, size)
}

func TestLimitBuyFillsWhenCloseAtOrBelowLimit(t *testing.T) {
	order := bars.Order{Type: bars.Limit, Side: bars.Buy, Size: 1, LimitPrice: limitPrice(95)}
	_, _, ok := Match(order, 101)
	assert.False(t, ok) // S3: no fill when close > limit for a buy

	price, size, ok := Match(order, 95)
	assert.True(t, ok)
	assert.Equal(t, 95.0, price)
	assert.Equal(t, 1.0, size)
}

func TestLimitSellFillsWhenCloseAtOrAboveLimit(t *testing.T) {
	order := bars.Order{Type: bars.Limit, Side: bars.Sell, Size: 1, LimitPrice: limitPrice(105)}
	_, _, ok := Match(order, 100)
	assert.False(t, ok)

	price, size, ok := Match(order, 106)
	assert.True(t, ok)
	assert.Equal(t, 105.0, price)
	assert.Equal(t, 1.0, size)
}

func TestSlippageAndCommission(t *testing.T) {
	// S2: close=100, commission_rate=0.001, slippage_bps=10.
	exec := ApplySlippage(100, bars.Buy, 10)
	assert.InDelta(t, 100.1, exec, 1e-9)
	commission := Commission(exec, 1, 0.001)
	assert.InDelta(t, 0.1001, commission, 1e-9)
}

func TestSlippageSellIsAdverseDownward(t *testing.T) {
	exec := ApplySlippage(100, bars.Sell, 10)
	assert.InDelta(t, 99.9, exec, 1e-9)
}
