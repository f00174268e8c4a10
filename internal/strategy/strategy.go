// Package strategy defines the capability surface the engine consumes from
// a user-supplied trading strategy, and the small sum-type action DSL the
// strategy returns from each call. The loop tries a richer signature first
// and falls back, via marker-interface type assertions rather than
// reflection.
package strategy

import "github.com/chidi150c/bartest/internal/bars"

// Context is the per-bar snapshot passed to a single-feed strategy.
type Context struct {
	Position  float64
	AvgCost   float64
	Cash      float64
	Equity    float64
	BarIndex  int
}

// MultiContext is the per-tick snapshot passed to a multi-feed strategy.
type MultiContext struct {
	Positions  map[string]PositionSnapshot
	Cash       float64
	Equity     float64
	LastPrices map[string]float64
	BarIndex   int
}

// PositionSnapshot mirrors ledger.Entry's shape without importing the
// ledger package, keeping strategy a leaf dependency of bars only.
type PositionSnapshot struct {
	Position float64
	AvgCost  float64
}

// OrderEvent describes a submitted/filled order lifecycle notification.
type OrderEvent struct {
	Event   string // "submitted" or "filled"
	OrderID int64
	Symbol  string
}

// Strategy is the base capability every strategy must satisfy: at least
// one of Next or NextMulti (checked via the optional interfaces below).
type Strategy interface{}

// OnStartHook is an optional hook invoked once before the first bar.
type OnStartHook interface {
	OnStart(ctx Context)
}

// NextHook is the single-feed decision hook with context.
type NextHook interface {
	Next(bar bars.Bar, ctx Context) Action
}

// NextBarOnlyHook is the minimal single-feed decision hook without context,
// used as a fallback when NextHook is not implemented.
type NextBarOnlyHook interface {
	Next(bar bars.Bar) Action
}

// NextMultiHook is the joint-timeline decision hook.
type NextMultiHook interface {
	NextMulti(updateSlice map[string]bars.Bar, ctx MultiContext) Action
}

// OnOrderHook is an optional hook invoked on order submission and fill.
type OnOrderHook interface {
	OnOrder(evt OrderEvent)
}

// OnTradeHook is an optional hook invoked on each fill.
type OnTradeHook interface {
	OnTrade(trade bars.Trade)
}

// OnStopHook is an optional hook invoked once after the last bar.
type OnStopHook interface {
	OnStop()
}

// ActionKind tags which variant an Action holds.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSideTag
	ActionOrder
	ActionOrderList
)

// OrderRequest is the strategy-facing order description.
type OrderRequest struct {
	Side       bars.OrderSide
	Type       bars.OrderType
	Size       float64
	Price      *float64
	Symbol     string
}

// Action is the small sum type a strategy call returns: none, a bare
// side-tag (market order size=1), a single order, or a list of orders.
type Action struct {
	Kind    ActionKind
	Side    bars.OrderSide // valid when Kind == ActionSideTag
	Order   OrderRequest   // valid when Kind == ActionOrder
	Orders  []OrderRequest // valid when Kind == ActionOrderList
}

// None is the no-op action.
func None() Action { return Action{Kind: ActionNone} }

// SideTag builds a bare-side action: a market order of size 1.
func SideTag(side bars.OrderSide) Action { return Action{Kind: ActionSideTag, Side: side} }

// OneOrder wraps a single OrderRequest.
func OneOrder(o OrderRequest) Action { return Action{Kind: ActionOrder, Order: o} }

// Orders wraps a list of OrderRequests, filled in the order given.
func Orders(os []OrderRequest) Action { return Action{Kind: ActionOrderList, Orders: os} }

// Resolve normalizes an Action into a list of OrderRequest against a
// default symbol (the current bar's symbol, or "DEFAULT"), applying the
// action DSL's defaulting rules: size defaults to 1, limit orders without
// an explicit price default to the reference price.
func Resolve(a Action, defaultSymbol string, defaultPrice float64) []OrderRequest {
	switch a.Kind {
	case ActionNone:
		return nil
	case ActionSideTag:
		return []OrderRequest{{Side: a.Side, Type: bars.Market, Size: 1, Symbol: defaultSymbol}}
	case ActionOrder:
		return []OrderRequest{normalize(a.Order, defaultSymbol, defaultPrice)}
	case ActionOrderList:
		out := make([]OrderRequest, len(a.Orders))
		for i, o := range a.Orders {
			out[i] = normalize(o, defaultSymbol, defaultPrice)
		}
		return out
	default:
		return nil
	}
}

func normalize(o OrderRequest, defaultSymbol string, defaultPrice float64) OrderRequest {
	if o.Symbol == "" {
		o.Symbol = defaultSymbol
	}
	if o.Size == 0 {
		o.Size = 1
	}
	if o.Type == bars.Limit && o.Price == nil {
		p := defaultPrice
		o.Price = &p
	}
	return o
}
