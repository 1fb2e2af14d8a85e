package errors

import (
	"math"
)

// CheckFinite checks that every value is a finite number and returns a
// NumericalInstabilityError naming the offending sample otherwise.
func CheckFinite(operation string, values []float64, index int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values, index)
		}
	}
	return nil
}

// CheckScalar checks a single scalar value for NaN or Inf.
func CheckScalar(operation string, value float64, index int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, []float64{value}, index)
	}
	return nil
}

// SafeDivide performs division with protection against division by zero.
// Returns 0 if denominator is zero or close to zero.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}
