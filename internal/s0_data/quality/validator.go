package quality

import (
	"github.com/wonny/lsbacktest/internal/contracts"
)

// QualityGate measures how much of a price panel is usable
type QualityGate struct {
	config Config
}

// Config holds quality gate thresholds
type Config struct {
	MinCoverage float64 `yaml:"min_coverage"` // 종목별 유효 셀 비율 하한 (0 = 검사 안 함)
}

// NewQualityGate creates a new QualityGate instance
func NewQualityGate(config Config) *QualityGate {
	return &QualityGate{
		config: config,
	}
}

// Check computes per-ticker and overall valid-cell coverage of the panel
// ⭐ SSOT: S0 → 파이프라인 품질 검증
//
// The gate never blocks a run: missing cells already resolve to zero returns.
// Passed only reports whether every ticker meets MinCoverage; an empty panel never passes.
func (g *QualityGate) Check(panel *contracts.PricePanel) *contracts.DataQualitySnapshot {
	snapshot := &contracts.DataQualitySnapshot{
		TotalTickers: panel.NumTickers(),
		TotalDays:    panel.NumDays(),
		Coverage:     make(map[string]float64, panel.NumTickers()),
		Passed:       true,
	}

	// 1. 종목별 유효 셀 수
	valid := make([]int, panel.NumTickers())
	for _, row := range panel.Rows {
		for j, cell := range row {
			if j < len(valid) && cell.Valid {
				valid[j]++
			}
		}
	}

	// 2. 커버리지
	for j, ticker := range panel.Tickers {
		snapshot.ValidCells += valid[j]
		cov := 0.0
		if snapshot.TotalDays > 0 {
			cov = float64(valid[j]) / float64(snapshot.TotalDays)
		}
		snapshot.Coverage[ticker] = cov
	}

	// 3. 품질 점수
	snapshot.TotalCells = snapshot.TotalTickers * snapshot.TotalDays
	if snapshot.TotalCells > 0 {
		snapshot.QualityScore = float64(snapshot.ValidCells) / float64(snapshot.TotalCells)
	}

	if snapshot.TotalCells == 0 {
		snapshot.Passed = false // 데이터 없음
	} else if g.config.MinCoverage > 0 {
		snapshot.Passed = len(snapshot.LowCoverage(panel.Tickers, g.config.MinCoverage)) == 0
	}

	return snapshot
}

// LowCoverageTickers returns the tickers under the configured threshold
func (g *QualityGate) LowCoverageTickers(panel *contracts.PricePanel, snapshot *contracts.DataQualitySnapshot) []string {
	if g.config.MinCoverage <= 0 {
		return nil
	}
	return snapshot.LowCoverage(panel.Tickers, g.config.MinCoverage)
}
