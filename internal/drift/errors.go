package drift

import "errors"

// ErrSchemaMismatch marks two windows whose feature sets differ, or a
// requested feature missing from a window. It is fatal for the whole run and
// raised before any test executes; partial results are never returned.
var ErrSchemaMismatch = errors.New("schema mismatch")

// ErrInsufficientData marks a single feature that lacks enough observations
// for its test. The monitor recovers it locally as a Skip for that feature
// only; remaining features are still evaluated.
var ErrInsufficientData = errors.New("insufficient data")

func isInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
