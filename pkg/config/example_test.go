package config_test

import (
	"fmt"

	"github.com/wonny/lsbacktest/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("Rank threshold: %d\n", cfg.Backtest.RankThreshold)
	fmt.Printf("Annualization factor: %.0f\n", cfg.Backtest.AnnualizationFactor)
}
