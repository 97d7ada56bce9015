package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// ContingencyTable cross-tabulates category counts for one feature across two
// windows: row 0 is the baseline, row 1 the comparison, and the columns are
// the union of categories observed in either window (a category absent from
// one window gets a zero count). Built fresh per feature, discarded after the
// test.
type ContingencyTable struct {
	Categories []string
	Counts     [2][]float64
}

// NewContingencyTable tallies the two windows' category observations,
// sorting the union of categories for deterministic column order.
func NewContingencyTable(baseline, comparison []string) *ContingencyTable {
	bCounts := make(map[string]float64, len(baseline))
	for _, c := range baseline {
		bCounts[c]++
	}
	cCounts := make(map[string]float64, len(comparison))
	for _, c := range comparison {
		cCounts[c]++
	}

	seen := make(map[string]struct{}, len(bCounts)+len(cCounts))
	var cats []string
	for c := range bCounts {
		seen[c] = struct{}{}
		cats = append(cats, c)
	}
	for c := range cCounts {
		if _, ok := seen[c]; !ok {
			cats = append(cats, c)
		}
	}
	sort.Strings(cats)

	t := &ContingencyTable{Categories: cats}
	t.Counts[0] = make([]float64, len(cats))
	t.Counts[1] = make([]float64, len(cats))
	for i, c := range cats {
		t.Counts[0][i] = bCounts[c]
		t.Counts[1][i] = cCounts[c]
	}
	return t
}

// K returns the number of category columns.
func (t *ContingencyTable) K() int { return len(t.Categories) }

// RowTotals returns the per-window observation counts.
func (t *ContingencyTable) RowTotals() (baseline, comparison float64) {
	for _, v := range t.Counts[0] {
		baseline += v
	}
	for _, v := range t.Counts[1] {
		comparison += v
	}
	return baseline, comparison
}

// ChiSquareContingency runs the two-way chi-squared test of independence
// between window membership and category over a 2xK table. With one degree
// of freedom (K == 2) the Yates continuity correction is applied, the
// standard practice when expected cell counts are small.
//
// This tests whether the category *proportions* differ between windows; it
// is insensitive to a uniform change in total volume. Contrast with
// ChiSquareGoodnessOfFit, which compares raw counts against expectations and
// does react to volume shifts. The two are not interchangeable.
func ChiSquareContingency(t *ContingencyTable) (statistic, pValue float64, dof int, err error) {
	if t.K() < 2 {
		return 0, 0, 0, fmt.Errorf("chi2: need at least 2 categories, got %d", t.K())
	}
	rowB, rowC := t.RowTotals()
	if rowB == 0 || rowC == 0 {
		return 0, 0, 0, fmt.Errorf("chi2: a window has zero observations")
	}
	total := rowB + rowC
	dof = t.K() - 1 // (rows-1) * (cols-1) with 2 rows

	yates := dof == 1
	for j := 0; j < t.K(); j++ {
		colTotal := t.Counts[0][j] + t.Counts[1][j]
		for i, rowTotal := range []float64{rowB, rowC} {
			expected := rowTotal * colTotal / total
			if expected == 0 {
				return 0, 0, 0, fmt.Errorf("chi2: zero expected count for category %q", t.Categories[j])
			}
			diff := math.Abs(t.Counts[i][j] - expected)
			if yates {
				diff = math.Max(0, diff-0.5)
			}
			statistic += diff * diff / expected
		}
	}

	pValue = distuv.ChiSquared{K: float64(dof)}.Survival(statistic)
	return statistic, pValue, dof, nil
}

// ChiSquareGoodnessOfFit runs the one-way chi-squared test of observed
// counts against expected counts, with k-1 degrees of freedom. Unlike the
// two-way contingency test this compares absolute counts, so halving a
// window's volume while keeping proportions fixed is reported as a change.
func ChiSquareGoodnessOfFit(observed, expected []float64) (statistic, pValue float64, err error) {
	if len(observed) != len(expected) {
		return 0, 0, fmt.Errorf("chi2: observed and expected lengths differ (%d vs %d)",
			len(observed), len(expected))
	}
	if len(observed) < 2 {
		return 0, 0, fmt.Errorf("chi2: need at least 2 categories, got %d", len(observed))
	}
	for i, e := range expected {
		if e <= 0 {
			return 0, 0, fmt.Errorf("chi2: expected count must be positive (index %d)", i)
		}
		d := observed[i] - e
		statistic += d * d / e
	}
	dof := float64(len(observed) - 1)
	pValue = distuv.ChiSquared{K: dof}.Survival(statistic)
	return statistic, pValue, nil
}
