package backtest

import (
	"github.com/wonny/lsbacktest/internal/report"
)

// Report converts the result into the reporter's view
func (r *Result) Report() *report.Report {
	rep := &report.Report{
		StrategyID:    r.Config.StrategyID,
		Source:        r.Config.SourcePath,
		NumTickers:    r.NumTickers,
		NumDays:       r.NumDays,
		RankThreshold: r.Config.RankThreshold,
		Quality:       r.Quality,
	}
	if !r.NoTrades {
		rep.Summary = r.Summary
		rep.Equity = r.EquityCurve
	}
	return rep
}
