// Package stats implements the statistics kernel: a few linear passes over
// the equity curve and trade log that produce total/annualized return,
// volatility, Sharpe, Calmar, max drawdown and its duration, and trade
// stats.
package stats

import (
	"math"

	"github.com/chidi150c/bartest/internal/bars"
)

const tradingDaysPerYear = 252

// Result is the full statistics bundle returned at run end.
type Result struct {
	StartEquity      float64
	EndEquity        float64
	TotalReturn      float64
	AnnualizedReturn float64
	Volatility       float64
	Sharpe           float64
	Calmar           float64
	MaxDrawdown      float64
	MaxDDDuration    int
	TotalTrades      int
	WinningTrades    int
	LosingTrades     int
	WinRate          float64
	TotalPnL         float64
}

// Compute derives Result from an equity curve (length >= 1) and the trade
// log.
func Compute(curve []bars.EquityPoint, trades []bars.Trade) Result {
	if len(curve) == 0 {
		return Result{}
	}

	startEquity := curve[0].Equity
	endEquity := curve[len(curve)-1].Equity
	totalReturn := 0.0
	if startEquity != 0 {
		totalReturn = endEquity/startEquity - 1
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev != 0 {
			returns = append(returns, curve[i].Equity/prev-1)
		}
	}

	meanReturn := 0.0
	for _, r := range returns {
		meanReturn += r
	}
	if len(returns) > 0 {
		meanReturn /= float64(len(returns))
	}

	var variance float64
	if len(returns) > 1 {
		var sumSq float64
		for _, r := range returns {
			d := r - meanReturn
			sumSq += d * d
		}
		variance = sumSq / float64(len(returns)-1)
	}
	std := math.Sqrt(variance)

	annualizedReturn := meanReturn * tradingDaysPerYear
	volatility := std * math.Sqrt(tradingDaysPerYear)
	sharpe := 0.0
	if std > 0 {
		sharpe = (meanReturn * math.Sqrt(tradingDaysPerYear)) / std
	}

	peak := startEquity
	ddDuration := 0
	maxDD := 0.0
	maxDDDuration := 0
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
			ddDuration = 0
			continue
		}
		ddDuration++
		if peak != 0 {
			dd := 1 - p.Equity/peak
			if dd > maxDD {
				maxDD = dd
			}
		}
		if ddDuration > maxDDDuration {
			maxDDDuration = ddDuration
		}
	}

	calmar := 0.0
	if maxDD > 0 {
		calmar = annualizedReturn / maxDD
	}

	totalTrades, winning, losing, totalPnL := tradeStats(trades)
	winRate := 0.0
	if totalTrades > 0 {
		winRate = float64(winning) / float64(totalTrades)
	}

	return Result{
		StartEquity:      startEquity,
		EndEquity:        endEquity,
		TotalReturn:      totalReturn,
		AnnualizedReturn: annualizedReturn,
		Volatility:       volatility,
		Sharpe:           sharpe,
		Calmar:           calmar,
		MaxDrawdown:      maxDD,
		MaxDDDuration:    maxDDDuration,
		TotalTrades:      totalTrades,
		WinningTrades:    winning,
		LosingTrades:     losing,
		WinRate:          winRate,
		TotalPnL:         totalPnL,
	}
}

// tradeStats is a rough per-consecutive-pair PnL heuristic, not a proper
// order-pairing accounting (no FIFO/LIFO lot matching).
func tradeStats(trades []bars.Trade) (total, winning, losing int, totalPnL float64) {
	total = len(trades)
	for i := 1; i < len(trades); i++ {
		prevPrice := trades[i-1].Price
		t := trades[i]
		var profit float64
		if t.Side == bars.Buy {
			profit = (t.Price - prevPrice) * t.Size
		} else {
			profit = (prevPrice - t.Price) * t.Size
		}
		totalPnL += profit
		switch {
		case profit > 0:
			winning++
		case profit < 0:
			losing++
		}
	}
	return total, winning, losing, totalPnL
}
