package portfolio

import (
	"fmt"

	"github.com/wonny/lsbacktest/internal/contracts"
)

// PositionReturns applies each day's signal to the next day's return
// ⭐ SSOT: 포지션 수익률 계산은 여기서만 (look-ahead 방지)
//
// Row i of the result is signal[i][j] × returns[i+1][j]. The final signal row
// has no next-day return to realize against, so the result has one row fewer
// than the signal matrix instead of a zero-filled placeholder row.
func PositionReturns(sig contracts.SignalMatrix, returns contracts.ReturnMatrix) (contracts.PositionReturnMatrix, error) {
	if sig.Rows() != returns.Rows() {
		return nil, fmt.Errorf("%w: %d signal rows vs %d return rows",
			contracts.ErrConfigurationMismatch, sig.Rows(), returns.Rows())
	}
	if sig.Rows() <= 1 {
		return contracts.PositionReturnMatrix{}, nil
	}

	cols := sig.Cols()
	out := make(contracts.PositionReturnMatrix, sig.Rows()-1)
	for i := 0; i < sig.Rows()-1; i++ {
		next := returns[i+1]
		if len(sig[i]) != cols || len(next) != cols {
			return nil, fmt.Errorf("%w: row %d has %d signals and %d next-day returns, want %d",
				contracts.ErrConfigurationMismatch, i, len(sig[i]), len(next), cols)
		}

		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = float64(sig[i][j]) * next[j]
		}
		out[i] = row
	}

	return out, nil
}
