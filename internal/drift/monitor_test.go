package drift_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/driftwatch/driftwatch/internal/drift"
	"github.com/driftwatch/driftwatch/internal/feature"
	"github.com/driftwatch/driftwatch/internal/window"
)

// buildWindows creates two windows over nNumeric + nCategorical features.
// When shifted, every comparison feature is far from its baseline so every
// test must flag drift.
func buildWindows(nNumeric, nCategorical, rows int, shifted bool) (*window.Window, *window.Window, feature.Partition) {
	var part feature.Partition
	var cols []string
	for i := 0; i < nNumeric; i++ {
		name := fmt.Sprintf("num_%02d", i)
		cols = append(cols, name)
		part.Numeric = append(part.Numeric, name)
	}
	for i := 0; i < nCategorical; i++ {
		name := fmt.Sprintf("cat_%02d", i)
		cols = append(cols, name)
		part.Categorical = append(part.Categorical, name)
	}

	baseline := &window.Window{Columns: cols}
	comparison := &window.Window{Columns: cols}
	for r := 0; r < rows; r++ {
		bRec := window.Record{}
		cRec := window.Record{}
		for _, name := range part.Numeric {
			v := float64(r) / float64(rows)
			bRec[name] = v
			if shifted {
				cRec[name] = v + 10
			} else {
				cRec[name] = v
			}
		}
		for _, name := range part.Categorical {
			bRec[name] = "alpha"
			if shifted {
				cRec[name] = "beta"
			} else {
				cRec[name] = "alpha"
			}
		}
		baseline.Records = append(baseline.Records, bRec)
		comparison.Records = append(comparison.Records, cRec)
	}
	return baseline, comparison, part
}

// Result ordering must match the partition's feature order regardless of the
// internal parallel evaluation: numeric family first, then categorical, each
// in list order.
func TestRunOrderingMatchesPartition(t *testing.T) {
	baseline, comparison, part := buildWindows(12, 6, 100, true)
	m := drift.NewMonitor(baseline, comparison, part)

	for attempt := 0; attempt < 5; attempt++ {
		res, err := m.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := part.Features()
		if len(res.Events) != len(want) {
			t.Fatalf("got %d events, want %d (all features shifted)", len(res.Events), len(want))
		}
		for i, ev := range res.Events {
			if ev.Feature != want[i] {
				t.Fatalf("attempt %d: event[%d] = %q, want %q", attempt, i, ev.Feature, want[i])
			}
		}
	}
}

func TestRunCorrectedAlphaSharedPerFamily(t *testing.T) {
	baseline, comparison, part := buildWindows(10, 4, 100, true)
	m := drift.NewMonitor(baseline, comparison, part)

	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, ev := range res.Events {
		var want float64
		switch ev.Test {
		case drift.TestKS:
			want = 0.05 / 10
		case drift.TestChiSquared:
			want = 0.05 / 4
		default:
			t.Fatalf("unexpected test kind %q", ev.Test)
		}
		if math.Abs(ev.Result.CorrectedAlpha-want) > 1e-15 {
			t.Errorf("feature %s: corrected alpha = %g, want %g", ev.Feature, ev.Result.CorrectedAlpha, want)
		}
	}
}

func TestRunIdenticalWindowsNoDrift(t *testing.T) {
	baseline, comparison, part := buildWindows(5, 3, 80, false)
	m := drift.NewMonitor(baseline, comparison, part)

	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Events) != 0 {
		t.Errorf("got %d events for identical windows, want 0", len(res.Events))
	}
	// The categorical columns hold a single category here, so their test
	// cannot run; every numeric feature still evaluates cleanly.
	if len(res.Skipped) != 3 {
		t.Fatalf("skipped = %+v, want the 3 single-category features", res.Skipped)
	}
	for _, sk := range res.Skipped {
		if sk.Test != drift.TestChiSquared {
			t.Errorf("unexpected skip for %s (%s)", sk.Feature, sk.Test)
		}
	}
}

func TestRunSchemaMismatch(t *testing.T) {
	baseline := &window.Window{
		Columns: []string{"price", "room_type"},
		Records: []window.Record{{"price": 1.0, "room_type": "a"}, {"price": 2.0, "room_type": "b"}},
	}
	missingColumn := &window.Window{
		Columns: []string{"price"},
		Records: []window.Record{{"price": 1.0}, {"price": 2.0}},
	}
	part := feature.Partition{Numeric: []string{"price"}, Categorical: []string{"room_type"}}

	t.Run("comparison missing a column", func(t *testing.T) {
		m := drift.NewMonitor(baseline, missingColumn, part)
		res, err := m.Run(context.Background())
		if !errors.Is(err, drift.ErrSchemaMismatch) {
			t.Fatalf("err = %v, want ErrSchemaMismatch", err)
		}
		if res != nil {
			t.Error("partial results returned for malformed input")
		}
	})

	t.Run("partition names an absent feature", func(t *testing.T) {
		other := &window.Window{Columns: baseline.Columns, Records: baseline.Records}
		m := drift.NewMonitor(baseline, other, feature.Partition{Numeric: []string{"bedrooms"}})
		if _, err := m.Run(context.Background()); !errors.Is(err, drift.ErrSchemaMismatch) {
			t.Fatalf("err = %v, want ErrSchemaMismatch", err)
		}
	})
}

// A feature without enough data is skipped, not crashed on, and does not
// stop the remaining features from being evaluated.
func TestRunSkipsInsufficientData(t *testing.T) {
	cols := []string{"good", "sparse", "onecat"}
	baseline := &window.Window{Columns: cols}
	comparison := &window.Window{Columns: cols}
	for r := 0; r < 60; r++ {
		baseline.Records = append(baseline.Records, window.Record{
			"good": float64(r), "sparse": float64(r), "onecat": "only",
		})
		comparison.Records = append(comparison.Records, window.Record{
			"good": float64(r) + 1000, "sparse": nil, "onecat": "only",
		})
	}
	part := feature.Partition{
		Numeric:     []string{"good", "sparse"},
		Categorical: []string{"onecat"},
	}

	res, err := drift.NewMonitor(baseline, comparison, part).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Events) != 1 || res.Events[0].Feature != "good" {
		t.Fatalf("events = %+v, want exactly one for %q", res.Events, "good")
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("skipped = %+v, want 2 entries", res.Skipped)
	}
	if res.Skipped[0].Feature != "sparse" || res.Skipped[0].Test != drift.TestKS {
		t.Errorf("skipped[0] = %+v, want sparse/ks", res.Skipped[0])
	}
	if res.Skipped[1].Feature != "onecat" || res.Skipped[1].Test != drift.TestChiSquared {
		t.Errorf("skipped[1] = %+v, want onecat/chi2", res.Skipped[1])
	}
}

// Nulls count as their own category, so a window going partially null on a
// categorical feature is detectable by the independence test.
func TestRunNullCategoryShift(t *testing.T) {
	cols := []string{"neighbourhood"}
	baseline := &window.Window{Columns: cols}
	comparison := &window.Window{Columns: cols}
	for r := 0; r < 100; r++ {
		baseline.Records = append(baseline.Records, window.Record{"neighbourhood": "mission"})
		rec := window.Record{"neighbourhood": "mission"}
		if r%2 == 0 {
			rec["neighbourhood"] = nil
		}
		comparison.Records = append(comparison.Records, rec)
	}
	part := feature.Partition{Categorical: []string{"neighbourhood"}}

	res, err := drift.NewMonitor(baseline, comparison, part).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Events) != 1 {
		t.Fatalf("got %d events, want 1 for null-rate shift", len(res.Events))
	}
}

func TestRunWithJSComparator(t *testing.T) {
	baseline, comparison, part := buildWindows(3, 0, 500, true)
	m := drift.NewMonitor(baseline, comparison, part,
		drift.WithNumericComparator(drift.JSComparator{}))

	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(res.Events))
	}
	for _, ev := range res.Events {
		if ev.Test != drift.TestJS {
			t.Errorf("event test = %q, want js", ev.Test)
		}
		if ev.Result.PValue != 0 {
			t.Errorf("distance test should carry no p-value, got %g", ev.Result.PValue)
		}
		if ev.Result.Statistic <= 0.2 {
			t.Errorf("js distance = %g, want above threshold 0.2", ev.Result.Statistic)
		}
	}

	same, _, samePart := buildWindows(3, 0, 500, false)
	m = drift.NewMonitor(same, same, samePart,
		drift.WithNumericComparator(drift.JSComparator{}))
	res, err = m.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Events) != 0 {
		t.Errorf("got %d events for identical windows, want 0", len(res.Events))
	}
}

func TestMonitorSummary(t *testing.T) {
	cols := []string{"price", "room_type"}
	baseline := &window.Window{Columns: cols}
	comparison := &window.Window{Columns: cols}
	for r := 1; r <= 50; r++ {
		baseline.Records = append(baseline.Records, window.Record{
			"price": float64(r), "room_type": "entire",
		})
		rec := window.Record{"price": float64(2 * r), "room_type": "entire"}
		if r <= 10 {
			rec["price"] = nil
		}
		comparison.Records = append(comparison.Records, rec)
	}
	part := feature.Partition{Numeric: []string{"price"}, Categorical: []string{"room_type"}}

	summary, err := drift.NewMonitor(baseline, comparison, part).Summary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	change, ok := summary.PercentChange["price"]
	if !ok {
		t.Fatal("percent change missing entry for price")
	}
	// Comparison max is 100 vs baseline 50: a 100% change.
	if math.Abs(change["max"]-100) > 1e-9 {
		t.Errorf("max percent change = %g, want 100", change["max"])
	}

	nulls, ok := summary.NullRates["price"]
	if !ok {
		t.Fatal("null rates missing entry for price")
	}
	if nulls.Baseline != 0 {
		t.Errorf("baseline null pct = %g, want 0", nulls.Baseline)
	}
	if math.Abs(nulls.Comparison-20) > 1e-9 {
		t.Errorf("comparison null pct = %g, want 20", nulls.Comparison)
	}
}
