package audit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wonny/lsbacktest/internal/contracts"
	"github.com/wonny/lsbacktest/pkg/logger"
)

// ErrNoTrades is returned when there is no strategy return to analyze
var ErrNoTrades = errors.New("no trades executed")

// AnalyzerConfig holds the performance parameters of a run
type AnalyzerConfig struct {
	DailyRiskFreeRate   float64 // 일 무위험 수익률 (기본: 0)
	AnnualizationFactor float64 // 연환산 기간 수 (기본: 2386)
}

// Analyzer implements S7: Performance analysis
// ⭐ SSOT: S7 성과 분석 로직은 여기서만
type Analyzer struct {
	config AnalyzerConfig
	logger *logger.Logger
}

// NewAnalyzer creates a new performance analyzer
func NewAnalyzer(config AnalyzerConfig, logger *logger.Logger) *Analyzer {
	return &Analyzer{
		config: config,
		logger: logger,
	}
}

// Analyze derives the performance summary from the strategy return series
// and its cumulative curve.
//
// When annualized volatility is zero the summary is still returned, carrying
// the non-finite Sharpe ratio, together with ErrDegenerateVolatility.
func (a *Analyzer) Analyze(strategy, cumulative []float64) (*contracts.PerformanceSummary, error) {
	if len(strategy) == 0 || len(cumulative) == 0 {
		return nil, ErrNoTrades
	}
	if len(strategy) != len(cumulative) {
		return nil, fmt.Errorf("%w: %d strategy returns vs %d cumulative points",
			contracts.ErrConfigurationMismatch, len(strategy), len(cumulative))
	}

	mean, std := stat.PopMeanStdDev(strategy, nil) // 모표준편차 (n)
	vol := std * math.Sqrt(a.config.AnnualizationFactor)

	summary := &contracts.PerformanceSummary{
		FinalCumulativeReturn: cumulative[len(cumulative)-1],
		SharpeRatio:           a.sharpe(mean, vol),
		MaxDrawdown:           floats.Min(Drawdowns(cumulative)),
		MeanReturn:            mean,
		AnnualizedVolatility:  vol,
		Days:                  len(strategy),
	}

	a.logger.WithFields(map[string]interface{}{
		"days":         summary.Days,
		"final_cum":    summary.FinalCumulativeReturn,
		"sharpe":       summary.SharpeRatio,
		"max_drawdown": summary.MaxDrawdown,
	}).Debug("Performance analysis completed")

	if vol == 0 || math.IsNaN(summary.SharpeRatio) || math.IsInf(summary.SharpeRatio, 0) {
		return summary, fmt.Errorf("%w: annualized volatility is %v over %d days",
			contracts.ErrDegenerateVolatility, vol, summary.Days)
	}

	return summary, nil
}

// sharpe subtracts the annualized risk-free rate from the daily mean.
// The mixed units are kept as is so results match the reference strategy.
func (a *Analyzer) sharpe(mean, annualizedVol float64) float64 {
	annualRiskFree := a.config.DailyRiskFreeRate * a.config.AnnualizationFactor
	return (mean - annualRiskFree) / annualizedVol
}
