package signals

import (
	"sort"

	"github.com/wonny/lsbacktest/internal/contracts"
)

// rankedReturn pairs a return with its original column
type rankedReturn struct {
	value float64
	index int
}

// Rank assigns cross-sectional ranks within each day.
// ⭐ SSOT: 횡단면 랭킹 로직은 여기서만
//
// Rank 1 is the largest return. On equal returns the larger column index
// ranks first. Rows are independent.
func Rank(returns contracts.ReturnMatrix) contracts.RankMatrix {
	if returns.Rows() == 0 {
		return contracts.RankMatrix{}
	}

	ranks := make(contracts.RankMatrix, returns.Rows())
	for i, row := range returns {
		ranks[i] = rankRow(row)
	}
	return ranks
}

func rankRow(row []float64) []int {
	pairs := make([]rankedReturn, len(row))
	for j, v := range row {
		pairs[j] = rankedReturn{value: v, index: j}
	}

	// Sort descending by value, then by index
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].value != pairs[b].value {
			return pairs[a].value > pairs[b].value
		}
		return pairs[a].index > pairs[b].index
	})

	ranked := make([]int, len(row))
	for pos, p := range pairs {
		ranked[p.index] = pos + 1
	}
	return ranked
}
