// Package drift is the two-sample drift-detection core: comparators run one
// statistical test per feature, and the Monitor orchestrates them across a
// feature partition under family-corrected thresholds. The package owns no
// I/O; windows are materialized by the caller and read-only during a run.
package drift

import (
	"context"
	"fmt"
	"sync"

	"github.com/driftwatch/driftwatch/internal/feature"
	"github.com/driftwatch/driftwatch/internal/report"
	"github.com/driftwatch/driftwatch/internal/window"
)

// DefaultAlpha is the family-wide significance level when none is supplied.
const DefaultAlpha = 0.05

// Event reports one feature found drifted. Events are handed back to the
// caller as data; reacting to them (alerting, retraining) is a downstream
// concern and nothing here holds on to them after Run returns.
type Event struct {
	Feature string   `json:"feature_name"`
	Test    TestKind `json:"test_kind"`
	Result  Result   `json:"result"`
}

// Skip records a feature whose test could not run for lack of data. It is
// neither a crash nor a drift verdict.
type Skip struct {
	Feature string   `json:"feature_name"`
	Test    TestKind `json:"test_kind"`
	Reason  string   `json:"reason"`
}

// RunResult aggregates one run's drift events and skipped features, each in
// the order the partition listed the features (numeric family first).
type RunResult struct {
	Events  []Event `json:"events"`
	Skipped []Skip  `json:"skipped"`
}

// Monitor owns two windows and a feature partition and evaluates every
// partition feature with its family's comparator. Alpha and thresholds are
// explicit per-monitor state, so concurrent monitors with different
// configurations cannot interfere.
type Monitor struct {
	baseline    *window.Window
	comparison  *window.Window
	partition   feature.Partition
	alpha       float64
	numeric     NumericComparator
	categorical CategoricalComparator
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithAlpha overrides the family-wide significance level.
func WithAlpha(alpha float64) Option {
	return func(m *Monitor) { m.alpha = alpha }
}

// WithNumericComparator substitutes the numeric family's test (e.g. a
// JSComparator for very large windows).
func WithNumericComparator(c NumericComparator) Option {
	return func(m *Monitor) { m.numeric = c }
}

// NewMonitor creates a Monitor over the two windows and partition. Schema
// validation happens at Run time so a Monitor can be built before data
// loading has been double-checked.
func NewMonitor(baseline, comparison *window.Window, partition feature.Partition, opts ...Option) *Monitor {
	m := &Monitor{
		baseline:   baseline,
		comparison: comparison,
		partition:  partition,
		alpha:      DefaultAlpha,
		numeric:    KSComparator{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run evaluates every partition feature and returns the drift events plus
// the features skipped for insufficient data. The corrected threshold is
// computed once per family; features are evaluated concurrently but results
// are ordered by the partition's feature order, never by completion order.
// Schema violations fail the whole run before any test executes.
func (m *Monitor) Run(ctx context.Context) (*RunResult, error) {
	if err := m.validateSchema(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &RunResult{}

	numOutcomes, err := m.runNumericFamily()
	if err != nil {
		return nil, err
	}
	collect(res, numOutcomes)

	catOutcomes, err := m.runCategoricalFamily()
	if err != nil {
		return nil, err
	}
	collect(res, catOutcomes)

	return res, nil
}

// Summary returns the descriptive diagnostics (percent-change and null-rate
// tables) for the monitor's windows. Purely informational; no verdicts.
func (m *Monitor) Summary() (*report.Summary, error) {
	if err := m.validateSchema(); err != nil {
		return nil, err
	}
	change, err := report.PercentChange(m.baseline, m.comparison, m.partition.Numeric)
	if err != nil {
		return nil, err
	}
	nulls, err := report.NullRates(m.baseline, m.comparison, m.partition.Features())
	if err != nil {
		return nil, err
	}
	return &report.Summary{PercentChange: change, NullRates: nulls}, nil
}

// outcome tags one feature's evaluation with its partition index so parallel
// workers can write without coordination and ordering stays deterministic.
type outcome struct {
	feature string
	test    TestKind
	result  Result
	skip    string // non-empty when the feature was skipped
	err     error
}

func (m *Monitor) runNumericFamily() ([]outcome, error) {
	names := m.partition.Numeric
	if len(names) == 0 {
		return nil, nil
	}
	threshold, err := m.numeric.Threshold(m.alpha, len(names))
	if err != nil {
		return nil, err
	}

	outcomes := make([]outcome, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			outcomes[i] = m.evalNumeric(name, threshold)
		}(i, name)
	}
	wg.Wait()
	return outcomes, firstError(outcomes)
}

func (m *Monitor) runCategoricalFamily() ([]outcome, error) {
	names := m.partition.Categorical
	if len(names) == 0 {
		return nil, nil
	}
	threshold, err := m.categorical.Threshold(m.alpha, len(names))
	if err != nil {
		return nil, err
	}

	outcomes := make([]outcome, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			outcomes[i] = m.evalCategorical(name, threshold)
		}(i, name)
	}
	wg.Wait()
	return outcomes, firstError(outcomes)
}

func (m *Monitor) evalNumeric(name string, threshold float64) outcome {
	o := outcome{feature: name, test: m.numeric.Kind()}
	bVals, _, err := m.baseline.NumericColumn(name)
	if err != nil {
		o.err = err
		return o
	}
	cVals, _, err := m.comparison.NumericColumn(name)
	if err != nil {
		o.err = err
		return o
	}
	res, err := m.numeric.Compare(bVals, cVals, threshold)
	return o.finish(name, res, err)
}

func (m *Monitor) evalCategorical(name string, threshold float64) outcome {
	o := outcome{feature: name, test: m.categorical.Kind()}
	bVals, err := m.baseline.CategoricalColumn(name)
	if err != nil {
		o.err = err
		return o
	}
	cVals, err := m.comparison.CategoricalColumn(name)
	if err != nil {
		o.err = err
		return o
	}
	res, err := m.categorical.Compare(bVals, cVals, threshold)
	return o.finish(name, res, err)
}

func (o outcome) finish(name string, res Result, err error) outcome {
	switch {
	case err == nil:
		o.result = res
	case isInsufficientData(err):
		o.skip = err.Error()
	default:
		o.err = fmt.Errorf("feature %q: %w", name, err)
	}
	return o
}

func collect(res *RunResult, outcomes []outcome) {
	for _, o := range outcomes {
		switch {
		case o.skip != "":
			res.Skipped = append(res.Skipped, Skip{Feature: o.feature, Test: o.test, Reason: o.skip})
		case o.result.Drift:
			res.Events = append(res.Events, Event{Feature: o.feature, Test: o.test, Result: o.result})
		}
	}
}

func firstError(outcomes []outcome) error {
	for _, o := range outcomes {
		if o.err != nil {
			return o.err
		}
	}
	return nil
}

func (m *Monitor) validateSchema() error {
	if !m.baseline.SameSchema(m.comparison) {
		return fmt.Errorf("%w: baseline columns %v, comparison columns %v",
			ErrSchemaMismatch, m.baseline.Columns, m.comparison.Columns)
	}
	for _, name := range m.partition.Features() {
		if !m.baseline.HasColumn(name) {
			return fmt.Errorf("%w: feature %q not present in windows", ErrSchemaMismatch, name)
		}
	}
	return nil
}
