package report

import (
	"fmt"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/wonny/lsbacktest/internal/contracts"
)

// RenderEquityChart draws the cumulative return curve as a PNG
func RenderEquityChart(rep *Report) ([]byte, error) {
	if rep.NoTrades() {
		return nil, fmt.Errorf("no equity curve to render")
	}

	labels, values := chartSeries(rep.Equity)

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	padding := (maxVal - minVal) * 0.05
	if padding == 0 {
		padding = maxVal * 0.05
	}
	yMin := minVal - padding
	yMax := maxVal + padding

	splitNum := 6
	if len(labels) <= 30 {
		splitNum = len(labels) / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}

	s := rep.Summary
	title := fmt.Sprintf("%s (%d tickers, K=%d)\nCum: %.4f | Sharpe: %.2f | MaxDD: %.2f%%",
		rep.StrategyID, rep.NumTickers, rep.RankThreshold,
		s.FinalCumulativeReturn, s.SharpeRatio, s.MaxDrawdown*100)

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("chart bytes: %w", err)
	}
	return buf, nil
}

func chartSeries(curve []contracts.EquityPoint) ([]string, []float64) {
	labels := make([]string, len(curve))
	values := make([]float64, len(curve))
	for i, p := range curve {
		labels[i] = p.Date
		if labels[i] == "" {
			labels[i] = fmt.Sprintf("%d", i)
		}
		values[i] = p.Cumulative
	}
	return labels, values
}
