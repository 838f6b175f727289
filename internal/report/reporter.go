package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wonny/lsbacktest/internal/contracts"
)

// Report is everything the presentation layer needs from a finished run
type Report struct {
	StrategyID    string
	Source        string
	NumTickers    int
	NumDays       int
	RankThreshold int

	// nil when no trades were executed
	Summary *contracts.PerformanceSummary
	Equity  []contracts.EquityPoint
	Quality *contracts.DataQualitySnapshot
}

// NoTrades reports whether the run produced an empty cumulative series
func (r *Report) NoTrades() bool {
	return r.Summary == nil || len(r.Equity) == 0
}

// Reporter writes human-readable backtest results
// ⭐ SSOT: 결과 출력 포맷은 여기서만
type Reporter struct {
	w        io.Writer
	tailSize int
}

// NewReporter creates a reporter writing to w
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w, tailSize: 10}
}

// Print writes the run header, the three summary scalars and the equity tail.
// An empty cumulative series prints "No trades executed." instead.
func (r *Reporter) Print(rep *Report) {
	r.printHeader(rep)

	if rep.NoTrades() {
		fmt.Fprintln(r.w, "No trades executed.")
		fmt.Fprintln(r.w)
		return
	}

	s := rep.Summary
	fmt.Fprintln(r.w, "Cumulative Returns:")
	fmt.Fprintln(r.w, formatValue(s.FinalCumulativeReturn))
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "Sharpe Ratio:")
	if isFinite(s.SharpeRatio) {
		fmt.Fprintln(r.w, formatValue(s.SharpeRatio))
	} else {
		fmt.Fprintf(r.w, "%s ⚠️  undefined (zero volatility)\n", formatValue(s.SharpeRatio))
	}
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "Max Drawdown:")
	fmt.Fprintln(r.w, formatValue(s.MaxDrawdown))
	fmt.Fprintln(r.w)

	r.printEquityTail(rep.Equity)
}

func (r *Reporter) printHeader(rep *Report) {
	fmt.Fprintln(r.w, strings.Repeat("═", 59))
	fmt.Fprintln(r.w, "  Long/Short Rank Backtest")
	fmt.Fprintln(r.w, strings.Repeat("─", 59))
	if rep.StrategyID != "" {
		fmt.Fprintf(r.w, "  Strategy  : %s\n", rep.StrategyID)
	}
	if rep.Source != "" {
		fmt.Fprintf(r.w, "  Source    : %s\n", rep.Source)
	}
	fmt.Fprintf(r.w, "  Universe  : %d tickers × %d days\n", rep.NumTickers, rep.NumDays)
	fmt.Fprintf(r.w, "  Threshold : rank < %d → short, otherwise long\n", rep.RankThreshold)
	if rep.Quality != nil && rep.Quality.TotalCells > 0 {
		mark := "✅"
		if !rep.Quality.Passed {
			mark = "⚠️ "
		}
		fmt.Fprintf(r.w, "  Coverage  : %.2f%% %s\n", rep.Quality.QualityScore*100, mark)
	}
	fmt.Fprintln(r.w, strings.Repeat("─", 59))
	fmt.Fprintln(r.w)
}

func (r *Reporter) printEquityTail(curve []contracts.EquityPoint) {
	start := len(curve) - r.tailSize
	if start < 0 {
		start = 0
	}

	fmt.Fprintf(r.w, "📈 Equity Curve (Last %d Days)\n", len(curve)-start)
	for i := start; i < len(curve); i++ {
		p := curve[i]
		label := p.Date
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		fmt.Fprintf(r.w, "%s: %.4f (%+.2f%%, dd %.2f%%)\n",
			label, p.Cumulative, p.StrategyReturn*100, p.Drawdown*100)
	}
	fmt.Fprintln(r.w)
}

// formatValue prints six significant digits like a default C++ stream
func formatValue(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
