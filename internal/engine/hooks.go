package engine

import (
	"fmt"

	"github.com/chidi150c/bartest/internal/bars"
	"github.com/chidi150c/bartest/internal/strategy"
)

// callNext tries the richer Next(bar, ctx) signature first, falling back to
// Next(bar). A panic from either path is recovered and reported as the
// run-aborting error (ErrStrategyFault wraps the cause at the call site).
func callNext(strat strategy.Strategy, bar bars.Bar, ctx strategy.Context) (action strategy.Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy panic in Next: %v", r)
		}
	}()
	if s, ok := strat.(strategy.NextHook); ok {
		return s.Next(bar, ctx), nil
	}
	if s, ok := strat.(strategy.NextBarOnlyHook); ok {
		return s.Next(bar), nil
	}
	return strategy.Action{}, fmt.Errorf("strategy implements neither Next(bar, ctx) nor Next(bar)")
}

// callNextMulti tries NextMulti; callers fall back to Next(bar, ctx) on the
// first updated feed's bar when it is not implemented (handled by joint.go).
func callNextMulti(strat strategy.Strategy, updateSlice map[string]bars.Bar, ctx strategy.MultiContext) (action strategy.Action, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = true
			err = fmt.Errorf("strategy panic in NextMulti: %v", r)
		}
	}()
	s, has := strat.(strategy.NextMultiHook)
	if !has {
		return strategy.Action{}, false, nil
	}
	return s.NextMulti(updateSlice, ctx), true, nil
}

// callOnStartSafe invokes the optional OnStart hook; failures (including
// panics) are swallowed.
func callOnStartSafe(strat strategy.Strategy, ctx strategy.Context) {
	defer func() { recover() }()
	if s, ok := strat.(strategy.OnStartHook); ok {
		s.OnStart(ctx)
	}
}

func callOnOrderSafe(strat strategy.Strategy, evt strategy.OrderEvent) {
	defer func() { recover() }()
	if s, ok := strat.(strategy.OnOrderHook); ok {
		s.OnOrder(evt)
	}
}

func callOnTradeSafe(strat strategy.Strategy, trade bars.Trade) {
	defer func() { recover() }()
	if s, ok := strat.(strategy.OnTradeHook); ok {
		s.OnTrade(trade)
	}
}

func callOnStopSafe(strat strategy.Strategy) {
	defer func() { recover() }()
	if s, ok := strat.(strategy.OnStopHook); ok {
		s.OnStop()
	}
}
