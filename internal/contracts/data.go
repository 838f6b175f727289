package contracts

// DataQualitySnapshot represents panel quality information computed in S0
// ⭐ SSOT: S0 → 파이프라인 데이터 품질 정보 전달
type DataQualitySnapshot struct {
	TotalTickers int                `json:"total_tickers"`
	TotalDays    int                `json:"total_days"`
	TotalCells   int                `json:"total_cells"`
	ValidCells   int                `json:"valid_cells"`
	Coverage     map[string]float64 `json:"coverage"`      // 종목별 유효 셀 비율
	QualityScore float64            `json:"quality_score"` // 0.0 ~ 1.0, 전체 유효 셀 비율
	Passed       bool               `json:"passed"`        // 품질 기준 통과 여부
}

// LowCoverage returns tickers whose coverage is below min, in header order
func (d *DataQualitySnapshot) LowCoverage(tickers []string, min float64) []string {
	var low []string
	for _, t := range tickers {
		if d.Coverage[t] < min {
			low = append(low, t)
		}
	}
	return low
}
