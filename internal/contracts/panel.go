package contracts

import (
	"fmt"
	"math"
)

// PriceCell is a single price observation.
// Valid=false marks a cell that could not be parsed or was never observed;
// Value is meaningless in that case.
type PriceCell struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Price returns a valid cell. Non-finite values are stored as missing so that
// NaN never reaches the return calculation.
func Price(v float64) PriceCell {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return PriceCell{}
	}
	return PriceCell{Value: v, Valid: true}
}

// Missing returns an unusable cell
func Missing() PriceCell {
	return PriceCell{}
}

// PricePanel is the T×N daily price table passed from S0 to the pipeline
// ⭐ SSOT: S0 → 파이프라인 가격 데이터 전달
type PricePanel struct {
	Tickers []string      `json:"tickers"`
	Dates   []string      `json:"dates,omitempty"` // optional, one label per row
	Rows    [][]PriceCell `json:"rows"`
}

// NewPricePanel builds a panel and enforces the rectangular shape.
// Every row must have exactly len(tickers) cells and dates, when present,
// must label every row.
func NewPricePanel(tickers []string, dates []string, rows [][]PriceCell) (*PricePanel, error) {
	n := len(tickers)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d tickers",
				ErrConfigurationMismatch, i, len(row), n)
		}
	}
	if len(dates) > 0 && len(dates) != len(rows) {
		return nil, fmt.Errorf("%w: %d date labels for %d rows",
			ErrConfigurationMismatch, len(dates), len(rows))
	}

	return &PricePanel{Tickers: tickers, Dates: dates, Rows: rows}, nil
}

// EmptyPanel returns a panel with no tickers and no rows
func EmptyPanel() *PricePanel {
	return &PricePanel{}
}

// NumDays returns T
func (p *PricePanel) NumDays() int {
	return len(p.Rows)
}

// NumTickers returns N as defined by the header
func (p *PricePanel) NumTickers() int {
	return len(p.Tickers)
}

// IsEmpty reports whether the panel carries no trading days
func (p *PricePanel) IsEmpty() bool {
	return len(p.Rows) == 0
}

// DateAt returns the label for row i, or "" when the panel has no dates
func (p *PricePanel) DateAt(i int) string {
	if i < 0 || i >= len(p.Dates) {
		return ""
	}
	return p.Dates[i]
}
