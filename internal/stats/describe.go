package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DescribeStats lists the summary statistics Describe reports, in display
// order. The names match a dataframe describe() so downstream tables line up
// with what analysts already read.
var DescribeStats = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Describe computes the standard descriptive statistics over a sample.
// Quartiles use linear interpolation between order statistics. The standard
// deviation is the sample (n-1) estimator; with fewer than two values it is
// reported as 0 so the result stays JSON-safe.
func Describe(values []float64) map[string]float64 {
	out := map[string]float64{"count": float64(len(values))}
	if len(values) == 0 {
		for _, k := range DescribeStats[1:] {
			out[k] = 0
		}
		return out
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	out["mean"] = stat.Mean(sorted, nil)
	if len(sorted) >= 2 {
		out["std"] = stat.StdDev(sorted, nil)
	} else {
		out["std"] = 0
	}
	out["min"] = sorted[0]
	out["max"] = sorted[len(sorted)-1]
	out["25%"] = quantileLinear(sorted, 0.25)
	out["50%"] = quantileLinear(sorted, 0.50)
	out["75%"] = quantileLinear(sorted, 0.75)
	return out
}

// quantileLinear is the (n-1)*p linear-interpolation quantile used by
// dataframe describe(). gonum's stat.Quantile implements the empirical and
// CDF-interpolation definitions, which disagree with that convention, so the
// interpolation is done directly here. Input must be sorted.
func quantileLinear(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
