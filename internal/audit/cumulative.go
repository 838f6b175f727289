package audit

// CumulativeReturns compounds strategy returns into a growth-of-$1 curve.
// ⭐ SSOT: 누적 수익률 계산은 여기서만
//
// The first value is fixed at 1.0 and the first strategy return is not
// compounded: out[i] = out[i-1] * (1 + r[i]) for i >= 1.
// Empty input yields empty output; callers report "no trades" for it.
func CumulativeReturns(strategy []float64) []float64 {
	if len(strategy) == 0 {
		return []float64{}
	}

	out := make([]float64, len(strategy))
	out[0] = 1.0
	for i := 1; i < len(strategy); i++ {
		out[i] = out[i-1] * (1 + strategy[i])
	}
	return out
}

// Drawdowns returns (c - runningMax) / runningMax for every point of the curve
func Drawdowns(cumulative []float64) []float64 {
	out := make([]float64, len(cumulative))
	if len(cumulative) == 0 {
		return out
	}

	peak := cumulative[0]
	for i, c := range cumulative {
		if c > peak {
			peak = c
		}
		out[i] = (c - peak) / peak
	}
	return out
}
