package strategyconfig

import (
	"fmt"
	"math"
	"time"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Source kinds
const (
	KindCSV      = "csv"
	KindXLSX     = "xlsx"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Source ===
	switch cfg.Source.Kind {
	case "", KindCSV, KindXLSX, KindSQLite, KindPostgres:
	default:
		return ValidationError{"source.kind", "must be one of csv, xlsx, sqlite, postgres"}
	}
	if err := validateDate(cfg.Source.From); err != nil {
		return ValidationError{"source.from", err.Error()}
	}
	if err := validateDate(cfg.Source.To); err != nil {
		return ValidationError{"source.to", err.Error()}
	}
	if cfg.Source.From != "" && cfg.Source.To != "" && cfg.Source.From > cfg.Source.To {
		return ValidationError{"source", "from must not be after to"}
	}

	// === Performance ===
	af := cfg.Performance.AnnualizationFactor
	if af <= 0 || math.IsInf(af, 0) || math.IsNaN(af) {
		return ValidationError{"performance.annualization_factor", "must be a finite value > 0"}
	}
	if math.IsNaN(cfg.Performance.DailyRiskFreeRate) || math.IsInf(cfg.Performance.DailyRiskFreeRate, 0) {
		return ValidationError{"performance.daily_risk_free_rate", "must be finite"}
	}

	// === Quality ===
	if cfg.Quality.MinCoverage < 0 || cfg.Quality.MinCoverage > 1 {
		return ValidationError{"quality.min_coverage", "must be in range [0, 1]"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 임계값 1 이하 → 모든 종목 롱
	if cfg.Signals.RankThreshold <= 1 {
		warnings = append(warnings, Warning{
			Code:    "ALL_LONG",
			Message: fmt.Sprintf("rank_threshold=%d: no ticker can rank below it, every position is long", cfg.Signals.RankThreshold),
		})
	}

	if cfg.Performance.AnnualizationFactor != 252 && cfg.Performance.AnnualizationFactor != 2386 {
		warnings = append(warnings, Warning{
			Code:    "UNUSUAL_ANNUALIZATION",
			Message: fmt.Sprintf("annualization_factor=%.2f is neither 252 nor 2386", cfg.Performance.AnnualizationFactor),
		})
	}

	return warnings
}

// === Helper Functions ===

func validateDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("must be YYYY-MM-DD format")
	}
	return nil
}
