package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chidi150c/bartest/internal/bars"
	"github.com/chidi150c/bartest/internal/engine"
	"github.com/chidi150c/bartest/internal/resample"
	"github.com/chidi150c/bartest/internal/stats"
	"github.com/chidi150c/bartest/internal/store"
	"github.com/chidi150c/bartest/internal/strategies"
	"github.com/chidi150c/bartest/internal/strategy"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay bars through a strategy and report equity/stats",
	Long: `backtest loads OHLCV bars from a CSV file (single feed, --csv), a
SQLite bar store (--store/--symbol/--period), or multiple named feeds
(--feed SYMBOL=path.csv, repeatable, driving the joint multi-feed
scheduler) and replays them through a built-in strategy.

Example:
  bartest backtest --csv data/BTCUSD_1h.csv --strategy sma-cross --fast 10 --slow 30
  bartest backtest --feed BTC=btc.csv --feed ETH=eth.csv --strategy buy-hold`,
	RunE: runBacktest,
}

var (
	btCSV        string
	btFeeds      []string
	btStorePath  string
	btSymbol     string
	btPeriod     string
	btResample   string
	btCash       float64
	btCommission float64
	btSlippage   float64
	btBatchSize  int
	btStrategy   string
	btFast       int
	btSlow       int
	btCount      int
	btStart      string
	btEnd        string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&btCSV, "csv", "", "path to a single-feed OHLCV CSV (time,open,high,low,close,volume)")
	backtestCmd.Flags().StringArrayVar(&btFeeds, "feed", nil, "SYMBOL=path.csv, repeatable; drives the joint multi-feed scheduler")
	backtestCmd.Flags().StringVar(&btStorePath, "store", "", "SQLite bar store path; loads --symbol/--period from it instead of --csv")
	backtestCmd.Flags().StringVar(&btSymbol, "symbol", "", "symbol to query from --store")
	backtestCmd.Flags().StringVar(&btPeriod, "period", "1h", "bar period, used for -store table lookup and -resample target")
	backtestCmd.Flags().StringVar(&btResample, "resample", "", "resample loaded bars to this period before running")
	backtestCmd.Flags().StringVar(&btStart, "start", "0000-01-01 00:00:00", "--store range query: earliest datetime (ignored when --count is set)")
	backtestCmd.Flags().StringVar(&btEnd, "end", "9999-12-31 23:59:59", "--store query: latest datetime")
	backtestCmd.Flags().IntVar(&btCount, "count", 0, "--store query: most recent N bars ending at --end, instead of the full [--start, --end] range")

	backtestCmd.Flags().Float64Var(&btCash, "cash", 10000, "starting cash")
	backtestCmd.Flags().Float64Var(&btCommission, "commission", 0, "commission rate as a fraction, e.g. 0.0005")
	backtestCmd.Flags().Float64Var(&btSlippage, "slippage-bps", 0, "slippage in basis points")
	backtestCmd.Flags().IntVar(&btBatchSize, "batch-size", 0, "bars per batch (0 = whole run in one batch)")

	backtestCmd.Flags().StringVar(&btStrategy, "strategy", "buy-hold", "strategy name: buy-hold, sma-cross")
	backtestCmd.Flags().IntVar(&btFast, "fast", 10, "sma-cross: fast window")
	backtestCmd.Flags().IntVar(&btSlow, "slow", 30, "sma-cross: slow window")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg := bars.ConfigFromEnv()
	if cmd.Flags().Changed("cash") {
		cfg.Cash = btCash
	}
	if cmd.Flags().Changed("commission") {
		cfg.CommissionRate = btCommission
	}
	if cmd.Flags().Changed("slippage-bps") {
		cfg.SlippageBps = btSlippage
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.BatchSize = btBatchSize
	}

	strat, err := strategies.ByName(btStrategy, btFast, btSlow)
	if err != nil {
		return err
	}

	if len(btFeeds) > 0 {
		return runMultiBacktest(cfg, strat)
	}
	return runSingleBacktest(cfg, strat)
}

func runSingleBacktest(cfg bars.Config, strat strategy.Strategy) error {
	data, err := loadSingleFeed()
	if err != nil {
		return err
	}
	if btResample != "" {
		data, err = resample.Resample(data, btResample)
		if err != nil {
			return fmt.Errorf("resample: %w", err)
		}
	}

	result, err := engine.Run(cfg, data, strat)
	if err != nil {
		return err
	}

	fmt.Printf("run %s complete\n", result.RunID)
	fmt.Printf("  ticks:        %d\n", len(result.EquityCurve))
	fmt.Printf("  trades:       %d\n", len(result.Trades))
	fmt.Printf("  cash:         %.2f\n", result.Cash)
	fmt.Printf("  position:     %.4f @ %.2f\n", result.Position, result.AvgCost)
	fmt.Printf("  equity:       %.2f\n", result.Equity)
	fmt.Printf("  realized pnl: %.2f\n", result.RealizedPnL)
	printStats(result.Stats)
	return nil
}

func runMultiBacktest(cfg bars.Config, strat strategy.Strategy) error {
	feeds := map[string][]bars.Bar{}
	for _, spec := range btFeeds {
		symbol, path, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("bad --feed %q: want SYMBOL=path.csv", spec)
		}
		data, err := store.LoadCSV(path, symbol)
		if err != nil {
			return fmt.Errorf("load feed %s: %w", symbol, err)
		}
		if btResample != "" {
			data, err = resample.Resample(data, btResample)
			if err != nil {
				return fmt.Errorf("resample feed %s: %w", symbol, err)
			}
		}
		feeds[symbol] = data
	}

	result, err := engine.RunMulti(cfg, feeds, strat)
	if err != nil {
		return err
	}

	fmt.Printf("run %s complete\n", result.RunID)
	fmt.Printf("  ticks:        %d\n", len(result.EquityCurve))
	fmt.Printf("  trades:       %d\n", len(result.Trades))
	fmt.Printf("  cash:         %.2f\n", result.Cash)
	fmt.Printf("  equity:       %.2f\n", result.Equity)
	fmt.Printf("  realized pnl: %.2f\n", result.RealizedPnL)
	printStats(result.Stats)
	return nil
}

func loadSingleFeed() ([]bars.Bar, error) {
	if btStorePath != "" {
		s, err := store.Open(btStorePath)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		if btSymbol == "" {
			return nil, fmt.Errorf("--symbol is required with --store")
		}
		return s.Query(btSymbol, btPeriod, btStart, btEnd, btCount)
	}
	if btCSV == "" {
		return nil, fmt.Errorf("one of --csv, --feed or --store is required")
	}
	return store.LoadCSV(btCSV, btSymbol)
}

func printStats(s stats.Result) {
	fmt.Printf("  total return: %.4f\n", s.TotalReturn)
	fmt.Printf("  annualized:   %.4f\n", s.AnnualizedReturn)
	fmt.Printf("  sharpe:       %.4f\n", s.Sharpe)
	fmt.Printf("  calmar:       %.4f\n", s.Calmar)
	fmt.Printf("  max drawdown: %.4f (%d ticks)\n", s.MaxDrawdown, s.MaxDDDuration)
	fmt.Printf("  win rate:     %.4f (%d/%d)\n", s.WinRate, s.WinningTrades, s.TotalTrades)
}
