package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	seriesSheet  = "Series"
)

// WriteXLSX saves a workbook with a Summary sheet and a Series sheet
func WriteXLSX(path string, rep *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(seriesSheet); err != nil {
		return fmt.Errorf("create series sheet: %w", err)
	}

	// 1. Summary
	rows := [][]interface{}{
		{"strategy_id", rep.StrategyID},
		{"source", rep.Source},
		{"tickers", rep.NumTickers},
		{"days", rep.NumDays},
		{"rank_threshold", rep.RankThreshold},
	}
	if rep.NoTrades() {
		rows = append(rows, []interface{}{"result", "No trades executed."})
	} else {
		s := rep.Summary
		rows = append(rows,
			[]interface{}{"final_cumulative_return", cellValue(s.FinalCumulativeReturn)},
			[]interface{}{"sharpe_ratio", cellValue(s.SharpeRatio)},
			[]interface{}{"max_drawdown", cellValue(s.MaxDrawdown)},
			[]interface{}{"mean_return", cellValue(s.MeanReturn)},
			[]interface{}{"annualized_volatility", cellValue(s.AnnualizedVolatility)},
		)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i, err)
		}
	}

	// 2. Series
	header := make([]interface{}, len(seriesHeader))
	for i, h := range seriesHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(seriesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write series header: %w", err)
	}
	for i, p := range rep.Equity {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{p.Date, p.StrategyReturn, p.Cumulative, p.Drawdown}
		if err := f.SetSheetRow(seriesSheet, cell, &row); err != nil {
			return fmt.Errorf("write series row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// cellValue keeps non-finite numbers readable; xlsx has no NaN/Inf cell type
func cellValue(v float64) interface{} {
	if !isFinite(v) {
		return formatValue(v)
	}
	return v
}
