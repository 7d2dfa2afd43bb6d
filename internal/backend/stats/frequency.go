package stats

import (
	"math/rand/v2"
	"slices"
)

// Frequency is one row of a frequency table.
type Frequency struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

// RandomIntegers draws n integers uniformly from the closed range [lo, hi].
func RandomIntegers(r *rand.Rand, n, lo, hi int) []int {
	if n <= 0 || hi < lo {
		return nil
	}
	values := make([]int, n)
	for i := range values {
		values[i] = lo + r.IntN(hi-lo+1)
	}
	return values
}

// FrequencyTable counts occurrences of each observed value, ascending by
// value. Values that never occur are absent.
func FrequencyTable(values []int) []Frequency {
	counts := make(map[int]int)
	for _, v := range values {
		counts[v]++
	}
	table := make([]Frequency, 0, len(counts))
	for value, count := range counts {
		table = append(table, Frequency{Value: value, Count: count})
	}
	slices.SortFunc(table, func(a, b Frequency) int { return a.Value - b.Value })
	return table
}
