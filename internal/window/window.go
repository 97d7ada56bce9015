package window

import "fmt"

// NullCategory is the category label assigned to null values when a
// categorical column is extracted. Counting nulls as their own category lets
// the independence test pick up shifts in the null rate rather than silently
// dropping them.
const NullCategory = "__null__"

// Record maps a feature name to its value. Values are float64-convertible
// numerics, strings, or nil for null.
type Record map[string]interface{}

// Window is one bounded, time-delimited sample of records. The two windows of
// a comparison must expose an identical ordered column list. Windows are
// read-only for the duration of a run.
type Window struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (w *Window) Len() int { return len(w.Records) }

// SameSchema reports whether w and other expose the same ordered column list.
func (w *Window) SameSchema(other *Window) bool {
	if len(w.Columns) != len(other.Columns) {
		return false
	}
	for i, c := range w.Columns {
		if other.Columns[i] != c {
			return false
		}
	}
	return true
}

// HasColumn reports whether name is part of the schema.
func (w *Window) HasColumn(name string) bool {
	for _, c := range w.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// NumericColumn extracts the non-null numeric values of a column, along with
// the number of values excluded as null. Values that cannot be converted to
// float64 are treated as null, mirroring how a dataframe coerces bad numeric
// cells to NaN.
func (w *Window) NumericColumn(name string) (values []float64, nulls int, err error) {
	if !w.HasColumn(name) {
		return nil, 0, fmt.Errorf("window: column %q not in schema", name)
	}
	values = make([]float64, 0, len(w.Records))
	for _, rec := range w.Records {
		v, ok := rec[name]
		if !ok || v == nil {
			nulls++
			continue
		}
		f, ok := toFloat64(v)
		if !ok {
			nulls++
			continue
		}
		values = append(values, f)
	}
	return values, nulls, nil
}

// CategoricalColumn extracts the values of a column as category labels.
// Nulls become NullCategory; non-string values are rendered with their
// default formatting so numeric category codes survive as distinct labels.
func (w *Window) CategoricalColumn(name string) ([]string, error) {
	if !w.HasColumn(name) {
		return nil, fmt.Errorf("window: column %q not in schema", name)
	}
	out := make([]string, 0, len(w.Records))
	for _, rec := range w.Records {
		v, ok := rec[name]
		if !ok || v == nil {
			out = append(out, NullCategory)
			continue
		}
		if s, ok := v.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(v))
	}
	return out, nil
}

// NullCount returns how many records hold a null for the column.
func (w *Window) NullCount(name string) (int, error) {
	if !w.HasColumn(name) {
		return 0, fmt.Errorf("window: column %q not in schema", name)
	}
	n := 0
	for _, rec := range w.Records {
		if v, ok := rec[name]; !ok || v == nil {
			n++
		}
	}
	return n, nil
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
