package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/chidi150c/bartest/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve /healthz and /metrics for long-running backtest sweeps",
	Long: `serve starts an HTTP server exposing Prometheus metrics
(bartest_equity, bartest_orders_total, bartest_ticks_total, ...) updated by
any backtest run happening in the same process, plus a /healthz probe.
bartest_drawdown is exported too but no run sets it.
Runs until SIGINT/SIGTERM.`,
	RunE: runServe,
}

var servePort int

var log = logging.New("CLI")

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 9090, "HTTP port for /healthz and /metrics")
}

func runServe(cmd *cobra.Command, args []string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", servePort), Handler: mux}
	go func() {
		log.Info("serving metrics on :%d/metrics", servePort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server: %v", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	shutdownCtx, c := context.WithTimeout(context.Background(), 2*time.Second)
	defer c()
	return srv.Shutdown(shutdownCtx)
}
