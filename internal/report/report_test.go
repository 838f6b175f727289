package report

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wonny/lsbacktest/internal/contracts"
)

func sampleReport() *Report {
	return &Report{
		StrategyID:    "ls_rank_reversal",
		Source:        "prices.csv",
		NumTickers:    2,
		NumDays:       5,
		RankThreshold: 2,
		Summary: &contracts.PerformanceSummary{
			FinalCumulativeReturn: 1.0525,
			SharpeRatio:           0.4321,
			MaxDrawdown:           -0.02,
			Days:                  3,
		},
		Equity: []contracts.EquityPoint{
			{Date: "2024-01-04", StrategyReturn: 0.01, Cumulative: 1.0},
			{Date: "2024-01-05", StrategyReturn: -0.02, Cumulative: 0.98, Drawdown: -0.02},
			{Date: "2024-01-08", StrategyReturn: 0.074, Cumulative: 1.0525},
		},
	}
}

func TestReporter_Print(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Print(sampleReport())

	out := buf.String()
	assert.Contains(t, out, "Cumulative Returns:\n1.0525\n")
	assert.Contains(t, out, "Sharpe Ratio:\n0.4321\n")
	assert.Contains(t, out, "Max Drawdown:\n-0.02\n")
	assert.Contains(t, out, "2024-01-05: 0.9800 (-2.00%, dd -2.00%)")
	assert.NotContains(t, out, "No trades executed.")
}

func TestReporter_PrintNoTrades(t *testing.T) {
	rep := sampleReport()
	rep.Summary = nil
	rep.Equity = nil

	var buf bytes.Buffer
	NewReporter(&buf).Print(rep)

	out := buf.String()
	assert.Contains(t, out, "No trades executed.")
	assert.NotContains(t, out, "Sharpe Ratio:")
}

func TestReporter_CoverageLine(t *testing.T) {
	rep := sampleReport()
	rep.Quality = &contracts.DataQualitySnapshot{TotalCells: 10, ValidCells: 9, QualityScore: 0.9, Passed: true}

	var buf bytes.Buffer
	NewReporter(&buf).Print(rep)
	assert.Contains(t, buf.String(), "Coverage  : 90.00% ✅")

	// 로드 실패 → 빈 패널: 커버리지 줄 생략
	rep.Summary = nil
	rep.Equity = nil
	rep.Quality = &contracts.DataQualitySnapshot{}

	buf.Reset()
	NewReporter(&buf).Print(rep)
	out := buf.String()
	assert.NotContains(t, out, "Coverage")
	assert.Contains(t, out, "No trades executed.")
}

func TestReporter_PrintUndefinedSharpe(t *testing.T) {
	rep := sampleReport()
	rep.Summary.SharpeRatio = math.NaN()

	var buf bytes.Buffer
	NewReporter(&buf).Print(rep)

	assert.Contains(t, buf.String(), "NaN ⚠️  undefined (zero volatility)")
}

func TestReporter_EquityTail(t *testing.T) {
	rep := sampleReport()
	rep.Equity = make([]contracts.EquityPoint, 25)
	for i := range rep.Equity {
		rep.Equity[i] = contracts.EquityPoint{Cumulative: 1}
	}

	var buf bytes.Buffer
	NewReporter(&buf).Print(rep)

	out := buf.String()
	assert.Contains(t, out, "Equity Curve (Last 10 Days)")
	assert.Contains(t, out, "#24: ")
	assert.NotContains(t, out, "#14: ")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport().Equity))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,strategy_return,cumulative_return,drawdown", lines[0])
	assert.Equal(t, "2024-01-05,-0.02,0.98,-0.02", lines[2])
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.xlsx")
	rep := sampleReport()
	rep.Summary.SharpeRatio = math.Inf(1)

	require.NoError(t, WriteXLSX(path, rep))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, seriesSheet}, f.GetSheetList())

	series, err := f.GetRows(seriesSheet)
	require.NoError(t, err)
	require.Len(t, series, 4)
	assert.Equal(t, "2024-01-08", series[3][0])

	sharpe, err := f.GetCellValue(summarySheet, "B7")
	require.NoError(t, err)
	assert.Equal(t, "+Inf", sharpe)
}

func TestRenderEquityChart(t *testing.T) {
	png, err := RenderEquityChart(sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = RenderEquityChart(&Report{})
	assert.Error(t, err)
}
