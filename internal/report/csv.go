package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/wonny/lsbacktest/internal/contracts"
)

var seriesHeader = []string{"date", "strategy_return", "cumulative_return", "drawdown"}

// WriteCSV writes the equity curve as comma-separated rows
func WriteCSV(w io.Writer, curve []contracts.EquityPoint) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(seriesHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, p := range curve {
		record := []string{
			p.Date,
			strconv.FormatFloat(p.StrategyReturn, 'g', -1, 64),
			strconv.FormatFloat(p.Cumulative, 'g', -1, 64),
			strconv.FormatFloat(p.Drawdown, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
