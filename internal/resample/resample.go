// Package resample aggregates an ascending bar stream into coarser
// period buckets.
package resample

import (
	"fmt"
	"time"

	"github.com/chidi150c/bartest/internal/bars"
	"github.com/chidi150c/bartest/internal/period"
)

// Resample aggregates bars (assumed ascending by DateTime) into the target
// period's buckets in a single pass, emitting one bar per distinct bucket
// floor. Fails fast on an unparseable target period.
func Resample(in []bars.Bar, targetPeriod string) ([]bars.Bar, error) {
	minutes, err := period.ToMinutes(targetPeriod)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	if len(in) == 0 {
		return nil, nil
	}

	out := make([]bars.Bar, 0, len(in))
	var group []bars.Bar
	var groupTime time.Time
	var groupKey int64
	haveGroup := false

	flush := func() {
		if len(group) > 0 {
			out = append(out, aggregate(group, groupTime))
		}
	}

	for _, b := range in {
		floored := period.FloorToBucket(b.DateTime, minutes)
		key := floored.Unix()
		if !haveGroup {
			group = []bars.Bar{b}
			groupTime = floored
			groupKey = key
			haveGroup = true
			continue
		}
		if key != groupKey {
			flush()
			group = []bars.Bar{b}
			groupTime = floored
			groupKey = key
			continue
		}
		group = append(group, b)
	}
	flush()
	return out, nil
}

func aggregate(group []bars.Bar, bucketTime time.Time) bars.Bar {
	high := group[0].High
	low := group[0].Low
	var volume float64
	for _, b := range group {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
		volume += b.Volume
	}
	return bars.Bar{
		DateTime: bucketTime,
		Open:     group[0].Open,
		High:     high,
		Low:      low,
		Close:    group[len(group)-1].Close,
		Volume:   volume,
		Symbol:   group[0].Symbol,
	}
}
