// Package stats provides the descriptive aggregates shared by the
// metric modules: medians, interpolated percentiles, and rounding.
package stats

import (
	"math"
	"sort"
)

// Median returns the median of values, averaging the two middle elements
// for even-length input. Returns 0 for empty input; callers are expected
// to treat empty sample sets as a no-data state before aggregating.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Percentile returns the p-th percentile (0-100) of sorted ascending
// values using linear interpolation between closest ranks, matching the
// numpy default. values must be sorted and non-empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Mean returns the arithmetic mean of values, 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Round1 rounds v to one decimal place, the precision used on report pages.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
