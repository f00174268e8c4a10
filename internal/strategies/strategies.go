// Package strategies collects built-in sample strategies usable directly
// from the bartest CLI without writing Go code: a buy-and-hold baseline
// and an SMA-crossover trend follower in the style of the bot's MA10/MA30
// regime filter.
package strategies

import (
	"github.com/chidi150c/bartest/internal/bars"
	"github.com/chidi150c/bartest/internal/indicators"
	"github.com/chidi150c/bartest/internal/strategy"
)

// ByName resolves a strategy by CLI-facing name.
func ByName(name string, fast, slow int) (strategy.Strategy, error) {
	switch name {
	case "", "buy-hold", "buyhold":
		return &BuyHold{}, nil
	case "sma-cross", "smacross":
		if fast <= 0 || slow <= 0 || fast >= slow {
			fast, slow = 10, 30
		}
		return NewSMACross(fast, slow), nil
	default:
		return nil, &UnknownStrategyError{Name: name}
	}
}

// UnknownStrategyError reports an unrecognized strategy name.
type UnknownStrategyError struct{ Name string }

func (e *UnknownStrategyError) Error() string {
	return "unknown strategy " + e.Name + " (supported: buy-hold, sma-cross)"
}

// BuyHold buys a single unit on the first bar and never trades again.
type BuyHold struct {
	bought bool
}

func (s *BuyHold) Next(bar bars.Bar, ctx strategy.Context) strategy.Action {
	if s.bought {
		return strategy.None()
	}
	s.bought = true
	return strategy.SideTag(bars.Buy)
}

// SMACross is a two-moving-average crossover: long when the fast SMA is
// above the slow SMA, flat otherwise. It buffers closes itself since
// indicators.SMA expects a full slice rather than a running update.
type SMACross struct {
	Fast, Slow int
	closes     []float64
	inPosition bool
}

// NewSMACross builds an SMACross with the given fast/slow windows.
func NewSMACross(fast, slow int) *SMACross {
	return &SMACross{Fast: fast, Slow: slow}
}

func (s *SMACross) Next(bar bars.Bar, ctx strategy.Context) strategy.Action {
	s.closes = append(s.closes, bar.Close)
	if len(s.closes) < s.Slow {
		return strategy.None()
	}

	fastSMA := indicators.SMA(s.closes, s.Fast)
	slowSMA := indicators.SMA(s.closes, s.Slow)
	last := len(s.closes) - 1
	f, sl := fastSMA[last], slowSMA[last]
	if f == nil || sl == nil {
		return strategy.None()
	}

	bullish := *f > *sl
	switch {
	case bullish && !s.inPosition:
		s.inPosition = true
		return strategy.SideTag(bars.Buy)
	case !bullish && s.inPosition:
		s.inPosition = false
		return strategy.SideTag(bars.Sell)
	default:
		return strategy.None()
	}
}
