// Package testutil provides reusable test helper functions for sensor filter
// resampling tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for comparisons against reference outputs. These match
// the tolerances the validating IDL/MATLAB reference data was checked with:
// |actual - expected| <= atol + rtol*|expected|, elementwise.
const (
	DefaultRelTolerance = 1e-6
	DefaultAbsTolerance = 1e-20
)

// AssertAllClose verifies that actual and expected are elementwise close
// under the combined relative/absolute tolerance rule.
func AssertAllClose(t *testing.T, expected, actual []float64, rtol, atol float64) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), "length mismatch") {
		return false
	}
	for i := range expected {
		diff := math.Abs(actual[i] - expected[i])
		limit := atol + rtol*math.Abs(expected[i])
		if !assert.LessOrEqual(t, diff, limit,
			"element %d: actual=%g expected=%g diff=%g limit=%g",
			i, actual[i], expected[i], diff, limit) {
			return false
		}
	}
	return true
}

// AssertAllClose2D is AssertAllClose over matrices, row by row.
func AssertAllClose2D(t *testing.T, expected, actual [][]float64, rtol, atol float64) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), "row count mismatch") {
		return false
	}
	for i := range expected {
		if !AssertAllClose(t, expected[i], actual[i], rtol, atol) {
			return false
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}
