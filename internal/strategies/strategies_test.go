package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chidi150c/bartest/internal/bars"
	"github.com/chidi150c/bartest/internal/strategy"
)

func TestByNameResolvesKnownStrategies(t *testing.T) {
	s, err := ByName("buy-hold", 0, 0)
	require.NoError(t, err)
	assert.IsType(t, &BuyHold{}, s)

	s, err = ByName("sma-cross", 5, 20)
	require.NoError(t, err)
	sc, ok := s.(*SMACross)
	require.True(t, ok)
	assert.Equal(t, 5, sc.Fast)
	assert.Equal(t, 20, sc.Slow)
}

func TestByNameRejectsBadFastSlowWithDefaults(t *testing.T) {
	s, err := ByName("sma-cross", 30, 10) // fast >= slow, invalid
	require.NoError(t, err)
	sc := s.(*SMACross)
	assert.Equal(t, 10, sc.Fast)
	assert.Equal(t, 30, sc.Slow)
}

func TestByNameUnknown(t *testing.T) {
	_, err := ByName("bogus", 0, 0)
	require.Error(t, err)
}

func TestBuyHoldBuysOnceThenHolds(t *testing.T) {
	s := &BuyHold{}
	ctx := strategy.Context{}
	a1 := s.Next(bars.Bar{Close: 10}, ctx)
	assert.Equal(t, strategy.ActionSideTag, a1.Kind)
	assert.Equal(t, bars.Buy, a1.Side)

	a2 := s.Next(bars.Bar{Close: 11}, ctx)
	assert.Equal(t, strategy.ActionNone, a2.Kind)
}

func TestSMACrossEntersOnUptrend(t *testing.T) {
	s := NewSMACross(2, 3)
	ctx := strategy.Context{}

	sawBuy := false
	for _, c := range []float64{10, 10, 12, 20, 25} {
		a := s.Next(bars.Bar{Close: c}, ctx)
		if a.Kind == strategy.ActionSideTag && a.Side == bars.Buy {
			sawBuy = true
		}
	}
	assert.True(t, sawBuy, "a sustained uptrend should trigger a fast-over-slow buy crossover")
	assert.True(t, s.inPosition)
}

func TestSMACrossHoldsBeforeSlowWindowFills(t *testing.T) {
	s := NewSMACross(2, 5)
	ctx := strategy.Context{}
	a := s.Next(bars.Bar{Close: 10}, ctx)
	assert.Equal(t, strategy.ActionNone, a.Kind)
}
