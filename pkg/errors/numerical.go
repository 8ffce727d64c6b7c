package errors

import (
	"math"
)

// CheckNumericalStability returns a NumericalInstabilityError if any of the
// values is NaN or Inf.
func CheckNumericalStability(operation string, values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, "non-finite value", values)
		}
	}
	return nil
}

// CheckScalar checks a single scalar value for NaN or Inf.
func CheckScalar(operation string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, "non-finite value", []float64{value})
	}
	return nil
}

// CheckMatrix checks all values in a matrix for NaN or Inf.
func CheckMatrix(operation string, matrix interface{ Dims() (int, int); At(int, int) float64 }) error {
	rows, cols := matrix.Dims()
	var unstableValues []float64

	for i := 0; i < rows && len(unstableValues) == 0; i++ {
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				unstableValues = append(unstableValues, v)
				if len(unstableValues) >= 10 {
					break
				}
			}
		}
	}

	if len(unstableValues) > 0 {
		return NewNumericalInstabilityError(operation, "non-finite matrix entry", unstableValues)
	}
	return nil
}

// CheckPositive returns a NumericalInstabilityError unless value is a finite
// number strictly greater than zero.
func CheckPositive(operation, name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return NewNumericalInstabilityError(operation, name+" must be positive", []float64{value})
	}
	return nil
}
