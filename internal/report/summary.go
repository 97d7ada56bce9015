// Package report computes descriptive diagnostics between two windows. These
// are magnitude-of-change aids for humans and dashboards; they carry no
// pass/fail verdict and never trigger a drift event on their own.
package report

import (
	"fmt"
	"math"

	"github.com/driftwatch/driftwatch/internal/stats"
	"github.com/driftwatch/driftwatch/internal/window"
)

// epsilon keeps the percent-change denominator non-zero when a baseline
// statistic is exactly zero.
const epsilon = 1e-100

// NullRate holds per-window null percentages for one feature.
type NullRate struct {
	Baseline   float64 `json:"baseline_null_pct"`
	Comparison float64 `json:"comparison_null_pct"`
}

// Summary bundles both diagnostic tables for a run.
type Summary struct {
	PercentChange map[string]map[string]float64 `json:"percent_change"`
	NullRates     map[string]NullRate           `json:"null_rates"`
}

// PercentChange computes, per numeric feature and per descriptive statistic,
// 100 * |a - b| / (|a| + epsilon) between the two windows' statistics. Nulls
// are excluded from each window's statistics (count reflects non-null values
// only).
func PercentChange(baseline, comparison *window.Window, numericFeatures []string) (map[string]map[string]float64, error) {
	out := make(map[string]map[string]float64, len(numericFeatures))
	for _, name := range numericFeatures {
		bVals, _, err := baseline.NumericColumn(name)
		if err != nil {
			return nil, fmt.Errorf("percent change: %w", err)
		}
		cVals, _, err := comparison.NumericColumn(name)
		if err != nil {
			return nil, fmt.Errorf("percent change: %w", err)
		}
		bStats := stats.Describe(bVals)
		cStats := stats.Describe(cVals)
		row := make(map[string]float64, len(stats.DescribeStats))
		for _, s := range stats.DescribeStats {
			a, b := bStats[s], cStats[s]
			row[s] = 100 * math.Abs(a-b) / (math.Abs(a) + epsilon)
		}
		out[name] = row
	}
	return out, nil
}

// NullRates computes each feature's null percentage in both windows. An
// empty window reports 0 for every feature.
func NullRates(baseline, comparison *window.Window, features []string) (map[string]NullRate, error) {
	out := make(map[string]NullRate, len(features))
	for _, name := range features {
		bNulls, err := baseline.NullCount(name)
		if err != nil {
			return nil, fmt.Errorf("null rates: %w", err)
		}
		cNulls, err := comparison.NullCount(name)
		if err != nil {
			return nil, fmt.Errorf("null rates: %w", err)
		}
		out[name] = NullRate{
			Baseline:   pct(bNulls, baseline.Len()),
			Comparison: pct(cNulls, comparison.Len()),
		}
	}
	return out, nil
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
