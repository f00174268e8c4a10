package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chidi150c/bartest/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load a CSV of OHLCV bars into the SQLite bar store",
	Long: `ingest reads a CSV (headers: time|timestamp, open, high, low,
close, volume — case-insensitive) and inserts it into the SQLite bar
store's klines_<period> table for --symbol. Rows whose (symbol, datetime)
is already stored are skipped, unless --replace first deletes the
symbol's existing rows.

Example:
  bartest ingest --store bars.db --symbol BTCUSD --period 1h --csv btc_1h.csv`,
	RunE: runIngest,
}

var (
	ingStorePath string
	ingSymbol    string
	ingPeriod    string
	ingCSV       string
	ingReplace   bool
)

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingStorePath, "store", "bars.db", "SQLite bar store path")
	ingestCmd.Flags().StringVar(&ingSymbol, "symbol", "", "symbol to ingest under (required)")
	ingestCmd.Flags().StringVar(&ingPeriod, "period", "1h", "bar period (determines the target table)")
	ingestCmd.Flags().StringVar(&ingCSV, "csv", "", "path to the CSV to ingest (required)")
	ingestCmd.Flags().BoolVar(&ingReplace, "replace", false, "delete symbol's existing rows before inserting, instead of skipping conflicts")

	ingestCmd.MarkFlagRequired("symbol")
	ingestCmd.MarkFlagRequired("csv")
}

func runIngest(cmd *cobra.Command, args []string) error {
	s, err := store.Open(ingStorePath)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.IngestCSV(ingSymbol, ingPeriod, ingCSV, ingReplace)
	if err != nil {
		return err
	}
	fmt.Printf("ingested %d bars into %s (%s/%s)\n", n, ingStorePath, ingSymbol, ingPeriod)
	return nil
}
