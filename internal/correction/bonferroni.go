// Package correction adjusts per-test significance thresholds so a family of
// simultaneous tests keeps its family-wise false-positive rate bounded.
package correction

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration marks a corrector called with an out-of-range alpha
// or a non-positive test count. This is a programming or configuration error,
// not a data error, and is never recovered per-feature.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Bonferroni returns the per-test threshold familyAlpha / testCount. Each
// family (numeric, categorical) is corrected independently; callers compute
// the threshold once per family so every feature in it shares the same value.
func Bonferroni(familyAlpha float64, testCount int) (float64, error) {
	if testCount <= 0 {
		return 0, fmt.Errorf("%w: test count must be positive, got %d", ErrInvalidConfiguration, testCount)
	}
	if familyAlpha <= 0 || familyAlpha > 1 {
		return 0, fmt.Errorf("%w: alpha must be in (0, 1], got %g", ErrInvalidConfiguration, familyAlpha)
	}
	return familyAlpha / float64(testCount), nil
}
