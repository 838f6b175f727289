package strategyconfig

import "time"

// Config는 롱숏 랭킹 전략 1회 실행의 전체 설정
type Config struct {
	Meta        Meta        `yaml:"meta" json:"meta"`
	Source      Source      `yaml:"source" json:"source"`
	Signals     Signals     `yaml:"signals" json:"signals"`
	Performance Performance `yaml:"performance" json:"performance"`
	Quality     Quality     `yaml:"quality" json:"quality"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Source S0: 가격 패널 소스
type Source struct {
	Path          string `yaml:"path" json:"path"`
	Kind          string `yaml:"kind" json:"kind"` // csv | xlsx | sqlite | postgres, empty = by path
	HasDateColumn bool   `yaml:"has_date_column" json:"has_date_column"`
	Sheet         string `yaml:"sheet" json:"sheet"` // xlsx only
	From          string `yaml:"from" json:"from"`   // YYYY-MM-DD, database sources only
	To            string `yaml:"to" json:"to"`
}

// Signals S2: 랭크 → 포지션
type Signals struct {
	// rank < RankThreshold → short. Not range-checked: <=1 means all long,
	// > ticker count means all short.
	RankThreshold int `yaml:"rank_threshold" json:"rank_threshold"`
}

// Performance S7: 성과 분석
type Performance struct {
	DailyRiskFreeRate   float64 `yaml:"daily_risk_free_rate" json:"daily_risk_free_rate"`
	AnnualizationFactor float64 `yaml:"annualization_factor" json:"annualization_factor"`
}

// Quality S0 품질 경고 기준
type Quality struct {
	MinCoverage float64 `yaml:"min_coverage" json:"min_coverage"` // 0~1, 0 = disabled
}

// DecisionSnapshot 실행 스냅샷 (재현성용)
type DecisionSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	StrategyID string    `json:"strategy_id"`
	CreatedAt  time.Time `json:"created_at"`
}
