package audit

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/lsbacktest/internal/contracts"
	"github.com/wonny/lsbacktest/pkg/logger"
)

func newTestAnalyzer(rf, factor float64) *Analyzer {
	return NewAnalyzer(AnalyzerConfig{DailyRiskFreeRate: rf, AnnualizationFactor: factor}, logger.Nop())
}

func TestCumulativeReturns(t *testing.T) {
	strategy := []float64{0.5, 0.10, -0.20, 0.05}

	got := CumulativeReturns(strategy)
	require.Len(t, got, 4)

	// 첫 날 수익률은 복리에 포함되지 않음
	assert.Equal(t, 1.0, got[0])
	for i := 1; i < len(got); i++ {
		assert.Equal(t, got[i-1]*(1+strategy[i]), got[i])
	}
	assert.InDelta(t, 1.1*0.8*1.05, got[3], 1e-12)
}

func TestCumulativeReturns_Empty(t *testing.T) {
	assert.Empty(t, CumulativeReturns(nil))
	assert.Equal(t, []float64{1.0}, CumulativeReturns([]float64{0.9}))
}

func TestDrawdowns(t *testing.T) {
	dd := Drawdowns([]float64{1.0, 1.2, 0.9, 1.3, 1.17})

	for _, d := range dd {
		assert.LessOrEqual(t, d, 0.0)
	}
	assert.Equal(t, 0.0, dd[1])
	assert.InDelta(t, -0.25, dd[2], 1e-12)
	assert.Equal(t, 0.0, dd[3])
	assert.InDelta(t, -0.1, dd[4], 1e-12)
}

func TestDrawdowns_MonotoneCurveIsZero(t *testing.T) {
	for _, d := range Drawdowns([]float64{1.0, 1.0, 1.01, 1.5}) {
		assert.Equal(t, 0.0, d)
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	a := newTestAnalyzer(0, 252)
	strategy := []float64{0.01, -0.02, 0.03, 0.00}
	cumulative := CumulativeReturns(strategy)

	summary, err := a.Analyze(strategy, cumulative)
	require.NoError(t, err)

	mean := 0.005
	variance := (0.005*0.005 + 0.025*0.025 + 0.025*0.025 + 0.005*0.005) / 4
	vol := math.Sqrt(variance) * math.Sqrt(252)

	assert.InDelta(t, mean, summary.MeanReturn, 1e-12)
	assert.InDelta(t, vol, summary.AnnualizedVolatility, 1e-12)
	assert.InDelta(t, mean/vol, summary.SharpeRatio, 1e-12)
	assert.Equal(t, cumulative[3], summary.FinalCumulativeReturn)
	assert.InDelta(t, -0.02, summary.MaxDrawdown, 1e-12)
	assert.Equal(t, 4, summary.Days)
}

func TestAnalyzer_UsesPopulationStdDev(t *testing.T) {
	a := newTestAnalyzer(0, 2386)
	strategy := []float64{0.143541, 0.073810, -0.031061, 0.02, -0.05}

	summary, err := a.Analyze(strategy, CumulativeReturns(strategy))
	require.NoError(t, err)

	var ss float64
	for _, r := range strategy {
		d := r - summary.MeanReturn
		ss += d * d
	}
	want := math.Sqrt(ss/float64(len(strategy))) * math.Sqrt(2386)
	assert.InDelta(t, want, summary.AnnualizedVolatility, 1e-12)
}

func TestAnalyzer_RiskFreeIsAnnualized(t *testing.T) {
	strategy := []float64{0.01, -0.01, 0.02}
	cumulative := CumulativeReturns(strategy)

	base, err := newTestAnalyzer(0, 2386).Analyze(strategy, cumulative)
	require.NoError(t, err)
	withRF, err := newTestAnalyzer(0.0001, 2386).Analyze(strategy, cumulative)
	require.NoError(t, err)

	want := (base.MeanReturn - 0.0001*2386) / base.AnnualizedVolatility
	assert.InDelta(t, want, withRF.SharpeRatio, 1e-12)
}

func TestAnalyzer_DegenerateVolatility(t *testing.T) {
	a := newTestAnalyzer(0, 2386)
	strategy := []float64{0, 0, 0}

	summary, err := a.Analyze(strategy, CumulativeReturns(strategy))
	require.ErrorIs(t, err, contracts.ErrDegenerateVolatility)
	require.NotNil(t, summary, "summary is still reported")

	assert.True(t, math.IsNaN(summary.SharpeRatio))
	assert.Equal(t, 0.0, summary.MaxDrawdown)
	assert.Equal(t, 1.0, summary.FinalCumulativeReturn)
}

func TestAnalyzer_SingleDay(t *testing.T) {
	a := newTestAnalyzer(0, 2386)

	summary, err := a.Analyze([]float64{0.1436}, []float64{1.0})
	assert.ErrorIs(t, err, contracts.ErrDegenerateVolatility)
	assert.True(t, math.IsInf(summary.SharpeRatio, 1))
}

func TestAnalyzer_NoTrades(t *testing.T) {
	_, err := newTestAnalyzer(0, 2386).Analyze(nil, nil)
	assert.ErrorIs(t, err, ErrNoTrades)
}

func TestAnalyzer_LengthMismatch(t *testing.T) {
	_, err := newTestAnalyzer(0, 2386).Analyze([]float64{0.1, 0.2}, []float64{1})
	assert.ErrorIs(t, err, contracts.ErrConfigurationMismatch)
}

func TestRunRepository_SaveAndGet(t *testing.T) {
	// Skip if DATABASE_URL is not set
	url := os.Getenv("DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err, "database connection failed")
	defer pool.Close()

	repo := NewRunRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	rec := &RunRecord{
		RunID:         "test-" + time.Now().Format("20060102150405.000000"),
		StrategyID:    "ls_rank_reversal",
		ConfigHash:    "abc",
		SourcePath:    "prices.csv",
		RankThreshold: 2,
		NumTickers:    2,
		Summary: contracts.PerformanceSummary{
			FinalCumulativeReturn: 1.0,
			MaxDrawdown:           0,
			Days:                  1,
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.SaveRun(ctx, rec))

	got, err := repo.GetRun(ctx, rec.RunID)
	require.NoError(t, err)
	assert.Equal(t, rec.StrategyID, got.StrategyID)
	assert.False(t, got.SharpeDefined)
}
