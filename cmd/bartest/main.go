// Command bartest is the event-driven OHLCV backtesting engine's CLI: run
// a strategy over CSV or stored bars, ingest CSV into the SQLite bar
// store, or serve Prometheus metrics for a long-running ingest/backtest
// loop.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
