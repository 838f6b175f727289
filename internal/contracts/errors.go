package contracts

import "errors"

// Pipeline error kinds.
// 모든 단계는 이 sentinel을 %w로 감싸서 반환하고, CLI는 errors.Is로 판별한다.
var (
	// ErrLoadFailure means the price source could not be opened or read.
	// The loader still hands back an empty panel so the run ends in "no trades".
	ErrLoadFailure = errors.New("load failure")

	// ErrConfigurationMismatch means two shapes that must agree do not
	// (header vs row width, signal vs return matrix, ticker count vs columns).
	ErrConfigurationMismatch = errors.New("configuration mismatch")

	// ErrDegenerateDivision means a return was computed against a zero prior price.
	ErrDegenerateDivision = errors.New("degenerate division")

	// ErrDegenerateVolatility means annualized volatility is zero so the
	// Sharpe ratio is not finite.
	ErrDegenerateVolatility = errors.New("degenerate volatility")
)
