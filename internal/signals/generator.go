package signals

import (
	"github.com/wonny/lsbacktest/internal/contracts"
)

// GenerateSignals maps ranks to unit positions: rank < threshold is short,
// everything else (including rank == threshold) is long.
//
// The K-1 best performers of a day are shorted. This is a reversal
// construction and the polarity is kept as is.
// threshold is not range-checked: <= 1 yields all long and
// > N yields all short.
func GenerateSignals(ranks contracts.RankMatrix, threshold int) contracts.SignalMatrix {
	if ranks.Rows() == 0 {
		return contracts.SignalMatrix{}
	}

	out := make(contracts.SignalMatrix, ranks.Rows())
	for i, row := range ranks {
		sig := make([]contracts.Signal, len(row))
		for j, r := range row {
			sig[j] = contracts.Long
			if r < threshold {
				sig[j] = contracts.Short
			}
		}
		out[i] = sig
	}
	return out
}
