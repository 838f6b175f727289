package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/lsbacktest/internal/audit"
	"github.com/wonny/lsbacktest/internal/contracts"
	"github.com/wonny/lsbacktest/internal/portfolio"
	"github.com/wonny/lsbacktest/internal/s0_data"
	"github.com/wonny/lsbacktest/internal/s0_data/quality"
	"github.com/wonny/lsbacktest/internal/signals"
	"github.com/wonny/lsbacktest/pkg/logger"
)

// Engine runs the long/short rank backtest over one price panel
// ⭐ SSOT: 백테스팅 실행은 여기서만
type Engine struct {
	loader s0_data.Loader
	logger *logger.Logger
}

// Config holds the parameters of a single run
type Config struct {
	StrategyID          string
	SourcePath          string
	RankThreshold       int     // rank < K → short, 그 외 long
	DailyRiskFreeRate   float64 // 일 무위험 수익률
	AnnualizationFactor float64 // 연환산 기간 수
	MinCoverage         float64 // 종목별 커버리지 경고 기준 (0 = 끔)
}

// Result holds every intermediate series of a run.
// All slices are built once and not modified afterwards.
type Result struct {
	Config   Config
	Duration time.Duration

	NumTickers int
	NumDays    int
	Tickers    []string
	Quality    *contracts.DataQualitySnapshot

	Returns   contracts.ReturnMatrix
	Ranks     contracts.RankMatrix
	Signals   contracts.SignalMatrix
	Positions contracts.PositionReturnMatrix

	StrategyReturns []float64
	Cumulative      []float64
	EquityCurve     []contracts.EquityPoint

	// nil when NoTrades
	Summary  *contracts.PerformanceSummary
	NoTrades bool
}

// NewEngine creates a new backtest engine
func NewEngine(loader s0_data.Loader, logger *logger.Logger) *Engine {
	return &Engine{
		loader: loader,
		logger: logger,
	}
}

// Run loads the panel and executes returns → ranks → signals → positions →
// strategy → cumulative → performance.
//
// A load failure is not fatal: the empty panel flows through every stage and
// the result reports no trades, while the returned error still wraps
// ErrLoadFailure. With ErrDegenerateVolatility the result carries the full
// summary as well.
func (e *Engine) Run(ctx context.Context, config Config) (*Result, error) {
	e.logger.WithFields(map[string]interface{}{
		"strategy_id":    config.StrategyID,
		"source":         config.SourcePath,
		"rank_threshold": config.RankThreshold,
		"annualization":  config.AnnualizationFactor,
	}).Info("Starting backtest")

	startTime := time.Now()

	result := &Result{
		Config: config,
	}

	// S0: 가격 패널
	panel, loadErr := e.loader.Load(ctx)
	if loadErr != nil && !errors.Is(loadErr, contracts.ErrLoadFailure) {
		return nil, fmt.Errorf("load panel: %w", loadErr)
	}
	if panel == nil {
		panel = contracts.EmptyPanel()
	}

	result.NumTickers = panel.NumTickers()
	result.NumDays = panel.NumDays()
	result.Tickers = panel.Tickers

	gate := quality.NewQualityGate(quality.Config{MinCoverage: config.MinCoverage})
	result.Quality = gate.Check(panel)
	if low := gate.LowCoverageTickers(panel, result.Quality); len(low) > 0 {
		e.logger.WithFields(map[string]interface{}{
			"min_coverage": config.MinCoverage,
			"tickers":      low,
		}).Warn("Tickers below coverage threshold")
	}

	if err := e.runPipeline(panel, result); err != nil {
		return nil, err
	}

	result.Duration = time.Since(startTime)

	if len(result.Cumulative) == 0 {
		result.NoTrades = true
		e.logger.WithField("days", result.NumDays).Warn("No trades executed")
		return result, loadErr
	}

	// S7: 성과 분석
	analyzer := audit.NewAnalyzer(audit.AnalyzerConfig{
		DailyRiskFreeRate:   config.DailyRiskFreeRate,
		AnnualizationFactor: config.AnnualizationFactor,
	}, e.logger)

	summary, err := analyzer.Analyze(result.StrategyReturns, result.Cumulative)
	if summary == nil {
		return nil, fmt.Errorf("analyze performance: %w", err)
	}
	result.Summary = summary
	result.EquityCurve = buildEquityCurve(panel, result.StrategyReturns, result.Cumulative)

	e.logger.WithFields(map[string]interface{}{
		"days":         summary.Days,
		"final_cum":    summary.FinalCumulativeReturn,
		"sharpe":       summary.SharpeRatio,
		"max_drawdown": summary.MaxDrawdown,
		"duration":     result.Duration.String(),
	}).Info("Backtest completed")

	if err != nil {
		return result, fmt.Errorf("analyze performance: %w", err)
	}
	return result, nil
}

// runPipeline fills the intermediate matrices of result from panel
func (e *Engine) runPipeline(panel *contracts.PricePanel, result *Result) error {
	var err error

	// S1: 수익률
	result.Returns, err = signals.CalculateReturns(panel)
	if err != nil {
		return fmt.Errorf("calculate returns: %w", err)
	}
	e.logger.WithFields(map[string]interface{}{
		"rows": result.Returns.Rows(),
		"cols": result.Returns.Cols(),
	}).Debug("Returns calculated")

	// S2: 순위
	result.Ranks = signals.Rank(result.Returns)
	e.logger.WithField("rows", result.Ranks.Rows()).Debug("Ranks assigned")

	// S3: 시그널
	result.Signals = signals.GenerateSignals(result.Ranks, result.Config.RankThreshold)
	e.logger.WithFields(map[string]interface{}{
		"rows":      result.Signals.Rows(),
		"threshold": result.Config.RankThreshold,
	}).Debug("Signals generated")

	// S4: 포지션 수익률 (다음 날 수익률에 적용)
	result.Positions, err = portfolio.PositionReturns(result.Signals, result.Returns)
	if err != nil {
		return fmt.Errorf("position returns: %w", err)
	}
	e.logger.WithField("rows", result.Positions.Rows()).Debug("Position returns aggregated")

	// S5: 전략 수익률
	result.StrategyReturns, err = portfolio.StrategyReturns(result.Positions, panel.NumTickers())
	if err != nil {
		return fmt.Errorf("strategy returns: %w", err)
	}

	// S6: 누적 수익률
	result.Cumulative = audit.CumulativeReturns(result.StrategyReturns)
	e.logger.WithField("days", len(result.Cumulative)).Debug("Cumulative returns compounded")

	return nil
}

// buildEquityCurve labels strategy return i with the close it is realized on.
// Return row k spans price rows k..k+1 and position row i uses return row i+1,
// so strategy return i lands on price row i+2.
func buildEquityCurve(panel *contracts.PricePanel, strategy, cumulative []float64) []contracts.EquityPoint {
	drawdowns := audit.Drawdowns(cumulative)

	curve := make([]contracts.EquityPoint, len(strategy))
	for i := range strategy {
		curve[i] = contracts.EquityPoint{
			Date:           panel.DateAt(i + 2),
			StrategyReturn: strategy[i],
			Cumulative:     cumulative[i],
			Drawdown:       drawdowns[i],
		}
	}
	return curve
}
