package contracts

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		wantValid bool
	}{
		{"finite", 101.5, true},
		{"zero", 0, true},
		{"nan", math.NaN(), false},
		{"positive inf", math.Inf(1), false},
		{"negative inf", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := Price(tt.value)
			assert.Equal(t, tt.wantValid, cell.Valid)
		})
	}
}

func TestNewPricePanel(t *testing.T) {
	rows := [][]PriceCell{
		{Price(100), Price(200)},
		{Price(110), Missing()},
	}

	panel, err := NewPricePanel([]string{"AAPL", "MSFT"}, []string{"2024-01-02", "2024-01-03"}, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, panel.NumDays())
	assert.Equal(t, 2, panel.NumTickers())
	assert.Equal(t, "2024-01-03", panel.DateAt(1))
	assert.Equal(t, "", panel.DateAt(5))
	assert.False(t, panel.IsEmpty())
}

func TestNewPricePanel_RaggedRow(t *testing.T) {
	rows := [][]PriceCell{
		{Price(100), Price(200)},
		{Price(110)},
	}

	_, err := NewPricePanel([]string{"AAPL", "MSFT"}, nil, rows)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigurationMismatch))
}

func TestNewPricePanel_DateCountMismatch(t *testing.T) {
	rows := [][]PriceCell{{Price(1)}, {Price(2)}}

	_, err := NewPricePanel([]string{"A"}, []string{"2024-01-02"}, rows)
	assert.ErrorIs(t, err, ErrConfigurationMismatch)
}

func TestEmptyPanel(t *testing.T) {
	panel := EmptyPanel()
	assert.True(t, panel.IsEmpty())
	assert.Equal(t, 0, panel.NumTickers())
}

func TestSignal_String(t *testing.T) {
	assert.Equal(t, "short", Short.String())
	assert.Equal(t, "long", Long.String())
}
