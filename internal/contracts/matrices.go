package contracts

// ReturnMatrix holds day-over-day fractional returns, (T-1)×N.
// Row i is the return from day i to day i+1. Never contains NaN.
type ReturnMatrix [][]float64

// Rows returns the number of rows
func (m ReturnMatrix) Rows() int { return len(m) }

// Cols returns the column count of the first row (0 when empty)
func (m ReturnMatrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// RankMatrix holds 1-based cross-sectional ranks, same shape as ReturnMatrix.
// 1 = 그날 수익률이 가장 큰 종목
type RankMatrix [][]int

// Rows returns the number of rows
func (m RankMatrix) Rows() int { return len(m) }

// Signal is a unit position
type Signal int

const (
	Short Signal = -1
	Long  Signal = 1
)

// String implements fmt.Stringer
func (s Signal) String() string {
	if s == Short {
		return "short"
	}
	return "long"
}

// SignalMatrix holds one Signal per ticker per day
type SignalMatrix [][]Signal

// Rows returns the number of rows
func (m SignalMatrix) Rows() int { return len(m) }

// Cols returns the column count of the first row (0 when empty)
func (m SignalMatrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// PositionReturnMatrix holds signal[i] × return[i+1] per ticker.
// It has one row fewer than the SignalMatrix it was built from: the last
// signal row has no next-day return and is not emitted.
type PositionReturnMatrix [][]float64

// Rows returns the number of rows
func (m PositionReturnMatrix) Rows() int { return len(m) }

// Cols returns the column count of the first row (0 when empty)
func (m PositionReturnMatrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}
