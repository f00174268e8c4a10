package resample

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chidi150c/bartest/internal/bars"
)

func mkBar(minute int, close, volume float64) bars.Bar {
	return bars.Bar{
		DateTime: time.Date(2024, 1, 1, 0, minute, 0, 0, time.UTC),
		Open:     close,
		High:     close,
		Low:      close,
		Close:    close,
		Volume:   volume,
		Symbol:   "X",
	}
}

func TestResample1mTo5m(t *testing.T) {
	// S6: t=00:00..00:05, closes 1..6, volumes 1..6.
	in := []bars.Bar{
		mkBar(0, 1, 1), mkBar(1, 2, 2), mkBar(2, 3, 3),
		mkBar(3, 4, 4), mkBar(4, 5, 5), mkBar(5, 6, 6),
	}
	out, err := Resample(in, "5m")
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.True(t, out[0].DateTime.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1.0, out[0].Open)
	assert.Equal(t, 5.0, out[0].High)
	assert.Equal(t, 1.0, out[0].Low)
	assert.Equal(t, 5.0, out[0].Close)
	assert.Equal(t, 15.0, out[0].Volume)

	assert.True(t, out[1].DateTime.Equal(time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)))
	assert.Equal(t, 6.0, out[1].Open)
	assert.Equal(t, 6.0, out[1].High)
	assert.Equal(t, 6.0, out[1].Low)
	assert.Equal(t, 6.0, out[1].Close)
	assert.Equal(t, 6.0, out[1].Volume)
}

func TestResampleEmptyInput(t *testing.T) {
	out, err := Resample(nil, "5m")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestResampleInvalidPeriod(t *testing.T) {
	_, err := Resample([]bars.Bar{mkBar(0, 1, 1)}, "bogus")
	assert.Error(t, err)
}

func TestResampleOHLCInvariant(t *testing.T) {
	in := []bars.Bar{mkBar(0, 10, 1), mkBar(1, 12, 1), mkBar(2, 8, 1), mkBar(3, 11, 1)}
	out, err := Resample(in, "5m")
	require.NoError(t, err)
	require.Len(t, out, 1)
	b := out[0]
	assert.LessOrEqual(t, b.Low, b.Open)
	assert.LessOrEqual(t, b.Low, b.Close)
	assert.GreaterOrEqual(t, b.High, b.Open)
	assert.GreaterOrEqual(t, b.High, b.Close)
}

func TestResampleBucketCountMatchesDistinctFloors(t *testing.T) {
	in := []bars.Bar{mkBar(0, 1, 1), mkBar(3, 2, 1), mkBar(7, 3, 1), mkBar(8, 4, 1), mkBar(20, 5, 1)}
	out, err := Resample(in, "5m")
	require.NoError(t, err)
	// floors: 0, 0, 5, 5, 20 -> 3 distinct buckets
	assert.Len(t, out, 3)
}
