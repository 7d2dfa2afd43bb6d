// Package stats holds the numeric exercises shown on the dashboard. All
// functions are pure; randomness is injected so callers control the seed.
package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary is the descriptive statistics block for one array.
type Summary struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Variance float64 `json:"variance"`
	P90      float64 `json:"p90"`
}

// Sequence returns the integers from..to inclusive as floats.
func Sequence(from, to int) []float64 {
	if to < from {
		return nil
	}
	values := make([]float64, 0, to-from+1)
	for i := from; i <= to; i++ {
		values = append(values, float64(i))
	}
	return values
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// Variance is the population variance (divides by n).
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	_, variance := stat.PopMeanVariance(values, nil)
	return variance
}

// StdDev is the population standard deviation.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.PopStdDev(values, nil)
}

func Median(values []float64) float64 {
	return Percentile(values, 50)
}

// Percentile interpolates linearly between the two closest ranks, placing
// p at index p/100*(n-1) of the sorted values. The input is not modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 || p < 0 || p > 100 || math.IsNaN(p) {
		return math.NaN()
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	fraction := rank - float64(lower)
	return sorted[lower] + fraction*(sorted[upper]-sorted[lower])
}

func Describe(values []float64) Summary {
	return Summary{
		Mean:     Mean(values),
		Median:   Median(values),
		Variance: Variance(values),
		P90:      Percentile(values, 90),
	}
}

// Normalize returns the z-scores (x - mean) / stddev of values. A constant
// input has zero deviation and yields NaN elements; callers decide how to
// present that.
func Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	mean := Mean(values)
	deviation := StdDev(values)
	normalized := make([]float64, len(values))
	for i, v := range values {
		normalized[i] = (v - mean) / deviation
	}
	return normalized
}
