package portfolio

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/wonny/lsbacktest/internal/contracts"
)

// StrategyReturns equal-weights the position returns of each day.
// numTickers is the header ticker count and must match the matrix width;
// a mismatch is rejected before any row is summed.
func StrategyReturns(positions contracts.PositionReturnMatrix, numTickers int) ([]float64, error) {
	if positions.Rows() == 0 {
		return []float64{}, nil
	}

	for i, row := range positions {
		if len(row) != numTickers {
			return nil, fmt.Errorf("%w: row %d has %d columns, header has %d tickers",
				contracts.ErrConfigurationMismatch, i, len(row), numTickers)
		}
	}

	out := make([]float64, positions.Rows())
	for i, row := range positions {
		out[i] = floats.Sum(row) / float64(numTickers)
	}
	return out, nil
}
