package signals

import (
	"fmt"
	"math"

	"github.com/wonny/lsbacktest/internal/contracts"
)

// CalculateReturns converts a price panel into day-over-day fractional returns.
// ⭐ SSOT: 수익률 계산은 여기서만
//
// A return is 0 when either adjacent cell is missing, so no missing value
// survives past this stage. A zero prior price next to a valid current price,
// or any return that overflows to Inf/NaN, is rejected with ErrDegenerateDivision.
func CalculateReturns(panel *contracts.PricePanel) (contracts.ReturnMatrix, error) {
	rows := panel.NumDays()
	if rows <= 1 {
		return contracts.ReturnMatrix{}, nil
	}

	cols := panel.NumTickers()
	for i, row := range panel.Rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d tickers",
				contracts.ErrConfigurationMismatch, i, len(row), cols)
		}
	}

	returns := make(contracts.ReturnMatrix, rows-1)

	for i := 1; i < rows; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			prev, curr := panel.Rows[i-1][j], panel.Rows[i][j]
			if !prev.Valid || !curr.Valid {
				continue // 결측 → 0
			}
			if prev.Value == 0 {
				return nil, fmt.Errorf("%w: ticker %s has zero price at row %d",
					contracts.ErrDegenerateDivision, tickerName(panel, j), i-1)
			}
			r := (curr.Value - prev.Value) / prev.Value
			if math.IsInf(r, 0) || math.IsNaN(r) {
				return nil, fmt.Errorf("%w: ticker %s return overflows at row %d (prior price %g)",
					contracts.ErrDegenerateDivision, tickerName(panel, j), i, prev.Value)
			}
			row[j] = r
		}
		returns[i-1] = row
	}

	return returns, nil
}

func tickerName(panel *contracts.PricePanel, j int) string {
	if j < len(panel.Tickers) {
		return panel.Tickers[j]
	}
	return fmt.Sprintf("#%d", j)
}
