package drift

import (
	"fmt"

	"github.com/driftwatch/driftwatch/internal/correction"
	"github.com/driftwatch/driftwatch/internal/stats"
)

// TestKind names the statistical test behind a result.
type TestKind string

const (
	TestKS         TestKind = "ks"
	TestChiSquared TestKind = "chi2"
	TestJS         TestKind = "js"
)

// Result is the immutable outcome of one feature's test, produced fresh each
// run. For p-value tests CorrectedAlpha is the family-corrected significance
// threshold; for distance tests (JS) it is the distance threshold and PValue
// is omitted.
type Result struct {
	Statistic      float64 `json:"statistic"`
	PValue         float64 `json:"p_value,omitempty"`
	CorrectedAlpha float64 `json:"corrected_alpha"`
	Drift          bool    `json:"is_drift"`
}

// NumericComparator is a two-sample test over a feature's non-null numeric
// values. Threshold converts the family alpha into the per-test threshold
// once per run, so all features in the family share it.
type NumericComparator interface {
	Kind() TestKind
	Threshold(familyAlpha float64, testCount int) (float64, error)
	Compare(baseline, comparison []float64, threshold float64) (Result, error)
}

// KSComparator runs the asymptotic two-sample Kolmogorov–Smirnov test.
// Verdict is p <= threshold (non-strict, matching the source behavior; the
// categorical test uses the strict form — the asymmetry is incidental but
// preserved so boundary-case verdicts never silently change).
type KSComparator struct{}

func (KSComparator) Kind() TestKind { return TestKS }

func (KSComparator) Threshold(familyAlpha float64, testCount int) (float64, error) {
	return correction.Bonferroni(familyAlpha, testCount)
}

func (KSComparator) Compare(baseline, comparison []float64, threshold float64) (Result, error) {
	if len(baseline) < 2 || len(comparison) < 2 {
		return Result{}, fmt.Errorf("%w: need at least 2 non-null values per window (baseline=%d, comparison=%d)",
			ErrInsufficientData, len(baseline), len(comparison))
	}
	statistic, p, err := stats.KolmogorovSmirnov(baseline, comparison)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Statistic:      statistic,
		PValue:         p,
		CorrectedAlpha: threshold,
		Drift:          p <= threshold,
	}, nil
}

// DefaultJSDistance is the Jensen–Shannon distance above which a feature is
// flagged when no threshold is configured.
const DefaultJSDistance = 0.2

// JSComparator bins both samples onto a shared histogram and compares their
// Jensen–Shannon distance against a fixed threshold. The distance does not
// shrink as windows grow, so it stays usable at volumes where KS flags
// negligible differences. It is not a hypothesis test: no Bonferroni
// correction applies and the result carries no p-value.
type JSComparator struct {
	// DistanceThreshold above which the verdict is drift. Zero means
	// DefaultJSDistance.
	DistanceThreshold float64
	// Bins for the shared histogram. Zero means stats.DefaultJSBins.
	Bins int
}

func (JSComparator) Kind() TestKind { return TestJS }

func (j JSComparator) Threshold(familyAlpha float64, testCount int) (float64, error) {
	if testCount <= 0 {
		return 0, fmt.Errorf("%w: test count must be positive, got %d", correction.ErrInvalidConfiguration, testCount)
	}
	if j.DistanceThreshold < 0 {
		return 0, fmt.Errorf("%w: js threshold must be non-negative, got %g", correction.ErrInvalidConfiguration, j.DistanceThreshold)
	}
	if j.DistanceThreshold == 0 {
		return DefaultJSDistance, nil
	}
	return j.DistanceThreshold, nil
}

func (j JSComparator) Compare(baseline, comparison []float64, threshold float64) (Result, error) {
	if len(baseline) < 2 || len(comparison) < 2 {
		return Result{}, fmt.Errorf("%w: need at least 2 non-null values per window (baseline=%d, comparison=%d)",
			ErrInsufficientData, len(baseline), len(comparison))
	}
	dist, err := stats.JensenShannonSamples(baseline, comparison, j.Bins)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Statistic:      dist,
		CorrectedAlpha: threshold,
		Drift:          dist > threshold,
	}, nil
}

// CategoricalComparator builds a 2xK contingency table over the union of
// observed categories and runs the chi-squared test of independence between
// window membership and category. Verdict is p < threshold (strict). Nulls
// reach this comparator as their own category unless the caller filtered
// them upstream; without that, a uniform increase in nulls is invisible to
// the independence test.
type CategoricalComparator struct{}

func (CategoricalComparator) Kind() TestKind { return TestChiSquared }

func (CategoricalComparator) Threshold(familyAlpha float64, testCount int) (float64, error) {
	return correction.Bonferroni(familyAlpha, testCount)
}

func (CategoricalComparator) Compare(baseline, comparison []string, threshold float64) (Result, error) {
	if len(baseline) == 0 || len(comparison) == 0 {
		return Result{}, fmt.Errorf("%w: a window has zero observations (baseline=%d, comparison=%d)",
			ErrInsufficientData, len(baseline), len(comparison))
	}
	table := stats.NewContingencyTable(baseline, comparison)
	if table.K() < 2 {
		return Result{}, fmt.Errorf("%w: fewer than 2 distinct categories across both windows", ErrInsufficientData)
	}
	statistic, p, _, err := stats.ChiSquareContingency(table)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Statistic:      statistic,
		PValue:         p,
		CorrectedAlpha: threshold,
		Drift:          p < threshold,
	}, nil
}
