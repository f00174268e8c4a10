package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chidi150c/bartest/internal/env"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bartest",
	Short: "Event-driven OHLCV backtesting engine",
	Long: `bartest replays OHLCV bars (single feed or a joint multi-symbol
timeline) through a strategy, matching market/limit orders with slippage
and commission, and reports equity, trades and run statistics.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env.LoadDotEnv()
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./bartest.yaml, optional)")
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bartest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("BARTEST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}
