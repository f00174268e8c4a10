// Package matcher decides fill price/size for market and limit orders
// against a bar's reference price (the close), then applies slippage and
// commission.
package matcher

import "github.com/chidi150c/bartest/internal/bars"

// Match returns (fillPrice, fillSize, true) if order fills against refPrice
// (the current bar's close), or (0, 0, false) if it does not. No partial
// fills: a fill is always the full order size.
func Match(order bars.Order, refPrice float64) (fillPrice, fillSize float64, ok bool) {
	switch order.Type {
	case bars.Market:
		return refPrice, order.Size, true
	case bars.Limit:
		if order.LimitPrice == nil {
			return 0, 0, false
		}
		limit := *order.LimitPrice
		switch order.Side {
		case bars.Buy:
			if refPrice <= limit {
				return limit, order.Size, true
			}
		case bars.Sell:
			if refPrice >= limit {
				return limit, order.Size, true
			}
		}
		return 0, 0, false
	default:
		return 0, 0, false
	}
}

// ApplySlippage adjusts fillPrice by slippageBps basis points, adverse to
// the order's side: +sign for Buy, -sign for Sell.
func ApplySlippage(fillPrice float64, side bars.OrderSide, slippageBps float64) float64 {
	sign := 1.0
	if side == bars.Sell {
		sign = -1.0
	}
	return fillPrice * (1 + sign*slippageBps/10000)
}

// Commission returns execPrice * fillSize * commissionRate.
func Commission(execPrice, fillSize, commissionRate float64) float64 {
	return execPrice * fillSize * commissionRate
}
