package contracts

// PerformanceSummary is the final S7 output handed to the reporter
// ⭐ SSOT: 성과 요약은 한 번 계산되고 이후 변경되지 않음
type PerformanceSummary struct {
	FinalCumulativeReturn float64 `json:"final_cumulative_return"`
	SharpeRatio           float64 `json:"sharpe_ratio"`
	MaxDrawdown           float64 `json:"max_drawdown"` // always <= 0

	// 보조 지표
	MeanReturn           float64 `json:"mean_return"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	Days                 int     `json:"days"`
}

// EquityPoint is one point of the growth-of-$1 curve
type EquityPoint struct {
	Date           string  `json:"date,omitempty"`
	StrategyReturn float64 `json:"strategy_return"`
	Cumulative     float64 `json:"cumulative"`
	Drawdown       float64 `json:"drawdown"`
}
