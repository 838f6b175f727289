package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/lsbacktest/pkg/config"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lsbt",
	Short: "롱숏 랭킹 전략 백테스터",
	Long: `lsbt - cross-sectional rank long/short backtester

일별 가격 패널 → 수익률 → 순위 → 롱/숏 시그널 → 전략 수익률 → 성과 분석.

Usage:
  go run ./cmd/lsbt [command]

Examples:
  go run ./cmd/lsbt backtest run --source data/financial_data.csv
  go run ./cmd/lsbt backtest run --config strategy.yaml --threshold 20
  go run ./cmd/lsbt test-db`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "strategy YAML file (optional)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production), default from ENV")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig loads the environment configuration with the global flags applied
func loadConfig() (*config.Config, error) {
	if env != "" {
		if err := os.Setenv("ENV", env); err != nil {
			return nil, fmt.Errorf("set ENV: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}
