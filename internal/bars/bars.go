// Package bars defines the core data model shared by every engine
// component: the OHLCV Bar, run Config, order/trade records and the
// per-tick equity snapshot.
package bars

import (
	"fmt"
	"time"

	"github.com/chidi150c/bartest/internal/env"
)

// Bar is a single timestamped OHLCV record. Invariant (not enforced here —
// callers own ingest-time validation): low <= min(open,close) <=
// max(open,close) <= high, volume >= 0.
type Bar struct {
	DateTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Symbol   string
}

// Config holds the run-level knobs for a backtest.
type Config struct {
	Start           time.Time
	End             time.Time
	Cash            float64
	CommissionRate  float64 // fraction, e.g. 0.0005 = 5bp
	SlippageBps     float64 // basis points
	BatchSize       int
}

// ConfigFromEnv reads the process env (already hydrated by env.LoadDotEnv)
// and returns a Config with sane defaults for keys that are missing.
func ConfigFromEnv() Config {
	return Config{
		Cash:           env.GetFloat("BARTEST_CASH", 10000),
		CommissionRate: env.GetFloat("BARTEST_COMMISSION_RATE", 0),
		SlippageBps:    env.GetFloat("BARTEST_SLIPPAGE_BPS", 0),
		BatchSize:      env.GetInt("BARTEST_BATCH_SIZE", 0),
	}
}

// OrderSide is the side of an order.
type OrderSide int

const (
	Buy OrderSide = iota
	Sell
)

func (s OrderSide) String() string {
	if s == Sell {
		return "SELL"
	}
	return "BUY"
}

// OrderType distinguishes market from limit orders.
type OrderType int

const (
	Market OrderType = iota
	Limit
)

func (t OrderType) String() string {
	if t == Limit {
		return "limit"
	}
	return "market"
}

// OrderStatus tracks an order's lifecycle within a single tick.
type OrderStatus int

const (
	Submitted OrderStatus = iota
	Filled
	Rejected
)

// Order is a strategy-generated instruction, engine-assigned an ID at
// parse time and discarded after matching (except as a Trade record).
type Order struct {
	ID         int64
	Side       OrderSide
	Type       OrderType
	Size       float64
	LimitPrice *float64
	Status     OrderStatus
	Symbol     string
}

// Trade is one fill record.
type Trade struct {
	OrderID int64
	Side    OrderSide
	Price   float64
	Size    float64
	Symbol  string
}

// EquityPoint is one entry in the append-only equity curve.
type EquityPoint struct {
	DateTime time.Time
	Equity   float64
}

// dateTimeLayouts lists the datetime formats accepted on input, tried in
// this order: RFC3339 with offset, then the three naive forms.
var dateTimeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDateTime parses a timestamp string in any of the accepted formats,
// converting RFC3339 offsets to UTC. Returns ErrInvalidInput if none match.
func ParseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable datetime %q", ErrInvalidInput, s)
}

// CanonicalDateTime formats t as "YYYY-MM-DD HH:MM:SS" for lexicographic
// comparison and storage.
func CanonicalDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
