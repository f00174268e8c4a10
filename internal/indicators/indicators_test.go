package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMAKnownSequence(t *testing.T) {
	// S4: SMA([1,2,3,4,5], 3) = [none, none, 2.0, 3.0, 4.0]
	out := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, out, 5)
	assert.Nil(t, out[0])
	assert.Nil(t, out[1])
	require.NotNil(t, out[2])
	assert.InDelta(t, 2.0, *out[2], 1e-9)
	require.NotNil(t, out[3])
	assert.InDelta(t, 3.0, *out[3], 1e-9)
	require.NotNil(t, out[4])
	assert.InDelta(t, 4.0, *out[4], 1e-9)
}

func TestSMAEmptyOrZeroWindow(t *testing.T) {
	assert.Empty(t, SMA(nil, 3))
	out := SMA([]float64{1, 2, 3}, 0)
	for _, v := range out {
		assert.Nil(t, v)
	}
}

func TestSMAAtIndexEqualsWindowMean(t *testing.T) {
	prices := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}
	window := 4
	out := SMA(prices, window)
	for i := window - 1; i < len(prices); i++ {
		require.NotNil(t, out[i], "index %d", i)
		var sum float64
		for j := i - window + 1; j <= i; j++ {
			sum += prices[j]
		}
		assert.InDelta(t, sum/float64(window), *out[i], 1e-9)
	}
}

func TestSMAIncrementalMatchesFromScratch(t *testing.T) {
	lengths := []int{1, 5, 17, 100, 257}
	for _, n := range lengths {
		prices := make([]float64, n)
		for i := range prices {
			prices[i] = math.Sin(float64(i)) * 100
		}
		for window := 1; window <= n; window++ {
			out := SMA(prices, window)
			for i := window - 1; i < n; i++ {
				var sum float64
				for j := i - window + 1; j <= i; j++ {
					sum += prices[j]
				}
				want := sum / float64(window)
				require.NotNil(t, out[i])
				assert.InDelta(t, want, *out[i], 1e-7)
			}
		}
	}
}

func TestRSIMonotoneGains(t *testing.T) {
	// S5: strictly increasing prices over 15 points with window 14 -> 100
	// at the first emitted index (avg_loss = 0).
	prices := make([]float64, 15)
	for i := range prices {
		prices[i] = float64(i + 1)
	}
	out := RSI(prices, 14)
	require.Len(t, out, 15)
	for i := 0; i < 14; i++ {
		assert.Nil(t, out[i])
	}
	require.NotNil(t, out[14])
	assert.InDelta(t, 100.0, *out[14], 1e-9)
}

func TestRSIDegenerateInputs(t *testing.T) {
	assert.Empty(t, RSI(nil, 14))
	single := RSI([]float64{1}, 14)
	require.Len(t, single, 1)
	assert.Nil(t, single[0])
	out := RSI([]float64{1, 2, 3}, 0)
	for _, v := range out {
		assert.Nil(t, v)
	}
}

func TestRSIFirstEmittedValueFromPrimitives(t *testing.T) {
	prices := []float64{44, 44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42, 45.84, 46.08, 45.89, 46.03, 45.61, 46.28}
	window := 14
	out := RSI(prices, window)
	var gainSum, lossSum float64
	for i := 1; i <= window; i++ {
		d := prices[i] - prices[i-1]
		if d > 0 {
			gainSum += d
		} else {
			lossSum += -d
		}
	}
	avgGain := gainSum / float64(window)
	avgLoss := lossSum / float64(window)
	want := 100.0
	if avgLoss != 0 {
		want = 100 - 100/(1+avgGain/avgLoss)
	}
	require.NotNil(t, out[window])
	assert.InDelta(t, want, *out[window], 1e-9)
}
