// Package indicators implements the vectorized indicator kernels: a
// one-pass sliding-window SMA and a Wilder-smoothed RSI. Both return
// *float64 so an unset window position reads as nil, rather than a
// math.NaN() sentinel.
package indicators

// SMA returns the window-period simple moving average of prices, aligned
// to prices. Indices before the first full window are nil. Single pass,
// O(N) via a running sum.
func SMA(prices []float64, window int) []*float64 {
	out := make([]*float64, len(prices))
	if window <= 0 || len(prices) == 0 {
		return out
	}
	var sum float64
	for i := range prices {
		sum += prices[i]
		if i >= window {
			sum -= prices[i-window]
		}
		if i >= window-1 {
			v := sum / float64(window)
			out[i] = &v
		}
	}
	return out
}

// RSI returns the window-period Relative Strength Index using Wilder's
// smoothing, aligned to prices. Index 0 and indices before the first full
// window are nil. avg_loss == 0 is special-cased to RSI = 100 exactly.
func RSI(prices []float64, window int) []*float64 {
	out := make([]*float64, len(prices))
	if window <= 0 || len(prices) < 2 {
		return out
	}
	var avgGain, avgLoss float64
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		gain := 0.0
		loss := 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		switch {
		case i < window:
			avgGain += gain
			avgLoss += loss
		case i == window:
			avgGain = (avgGain + gain) / float64(window)
			avgLoss = (avgLoss + loss) / float64(window)
			out[i] = rsiValue(avgGain, avgLoss)
		default:
			avgGain = (avgGain*float64(window-1) + gain) / float64(window)
			avgLoss = (avgLoss*float64(window-1) + loss) / float64(window)
			out[i] = rsiValue(avgGain, avgLoss)
		}
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) *float64 {
	var v float64
	if avgLoss == 0 {
		v = 100
	} else {
		v = 100 - 100/(1+avgGain/avgLoss)
	}
	return &v
}
