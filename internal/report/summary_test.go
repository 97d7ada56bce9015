package report_test

import (
	"math"
	"testing"

	"github.com/driftwatch/driftwatch/internal/report"
	"github.com/driftwatch/driftwatch/internal/window"
)

func twoWindows() (*window.Window, *window.Window) {
	cols := []string{"price", "beds", "room_type"}
	baseline := &window.Window{Columns: cols}
	comparison := &window.Window{Columns: cols}
	for r := 1; r <= 20; r++ {
		baseline.Records = append(baseline.Records, window.Record{
			"price": float64(r), "beds": 2.0, "room_type": "entire",
		})
		comparison.Records = append(comparison.Records, window.Record{
			"price": float64(2 * r), "beds": 2.0, "room_type": "shared",
		})
	}
	return baseline, comparison
}

func TestPercentChange(t *testing.T) {
	baseline, comparison := twoWindows()
	got, err := report.PercentChange(baseline, comparison, []string{"price", "beds"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	price := got["price"]
	// Every statistic of a doubled column doubles, except the count.
	for _, s := range []string{"mean", "std", "min", "25%", "50%", "75%", "max"} {
		if math.Abs(price[s]-100) > 1e-9 {
			t.Errorf("price %s change = %g, want 100", s, price[s])
		}
	}
	if price["count"] != 0 {
		t.Errorf("price count change = %g, want 0", price["count"])
	}

	beds := got["beds"]
	for s, v := range beds {
		if v != 0 {
			t.Errorf("beds %s change = %g, want 0 for an unchanged column", s, v)
		}
	}
}

func TestPercentChangeZeroBaseline(t *testing.T) {
	cols := []string{"x"}
	baseline := &window.Window{Columns: cols, Records: []window.Record{{"x": -1.0}, {"x": 1.0}}}
	comparison := &window.Window{Columns: cols, Records: []window.Record{{"x": 4.0}, {"x": 6.0}}}

	got, err := report.PercentChange(baseline, comparison, []string{"x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Baseline mean is exactly 0; epsilon keeps the ratio finite.
	if v := got["x"]["mean"]; math.IsInf(v, 0) || math.IsNaN(v) {
		t.Errorf("mean change = %g, want finite", v)
	}
}

func TestNullRates(t *testing.T) {
	cols := []string{"price"}
	baseline := &window.Window{Columns: cols}
	comparison := &window.Window{Columns: cols}
	for r := 0; r < 10; r++ {
		baseline.Records = append(baseline.Records, window.Record{"price": 1.0})
		rec := window.Record{"price": 1.0}
		if r < 3 {
			rec["price"] = nil
		}
		comparison.Records = append(comparison.Records, rec)
	}

	got, err := report.NullRates(baseline, comparison, []string{"price"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nr := got["price"]
	if nr.Baseline != 0 {
		t.Errorf("baseline null pct = %g, want 0", nr.Baseline)
	}
	if math.Abs(nr.Comparison-30) > 1e-12 {
		t.Errorf("comparison null pct = %g, want 30", nr.Comparison)
	}
}

func TestMissingColumn(t *testing.T) {
	baseline, comparison := twoWindows()
	if _, err := report.PercentChange(baseline, comparison, []string{"bedrooms"}); err == nil {
		t.Error("expected error for unknown column")
	}
	if _, err := report.NullRates(baseline, comparison, []string{"bedrooms"}); err == nil {
		t.Error("expected error for unknown column")
	}
}
