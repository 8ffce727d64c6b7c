// Package basis maps one-dimensional inputs to design matrices under a fixed
// family of basis functions.
//
// A Basis is immutable once constructed and may be shared by any number of
// models. Expand is pure: the same input always yields the same matrix.
package basis

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bayesreg/core/parallel"
	"github.com/YuminosukeSato/bayesreg/pkg/errors"
)

// Basis expands a single-column input matrix into a num_data × NumBasis()
// design matrix.
type Basis interface {
	// Name returns the family name, e.g. "polynomial".
	Name() string

	// NumBasis returns the number of columns Expand produces.
	NumBasis() int

	// DataLimits returns the domain bounds used to centre and scale inputs.
	DataLimits() [2]float64

	// Expand returns the design matrix for x. x must have exactly one column
	// and at least one row.
	Expand(x mat.Matrix) (*mat.Dense, error)
}

// columnFunc returns the value of basis function i at x.
type columnFunc func(x float64, i int) float64

// family holds what every basis shares: its identity, size and domain.
type family struct {
	name     string
	numBasis int
	limits   [2]float64
	column   columnFunc
}

func (f *family) Name() string           { return f.name }
func (f *family) NumBasis() int          { return f.numBasis }
func (f *family) DataLimits() [2]float64 { return f.limits }

func (f *family) Expand(x mat.Matrix) (*mat.Dense, error) {
	op := f.name + ".Expand"
	rows, cols := x.Dims()
	if rows == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	if cols != 1 {
		return nil, errors.NewDimensionError(op, 1, cols, 1)
	}

	phi := mat.NewDense(rows, f.numBasis, nil)
	parallel.ParallelizeWithThreshold(rows, parallel.DefaultThreshold, func(start, end int) {
		for r := start; r < end; r++ {
			v := x.At(r, 0)
			for i := 0; i < f.numBasis; i++ {
				phi.Set(r, i, f.column(v, i))
			}
		}
	})
	return phi, nil
}

func newFamily(name string, numBasis int, limits [2]float64) (*family, error) {
	if numBasis < 1 {
		return nil, errors.NewValidationError("num_basis", "must be at least 1", numBasis)
	}
	lo, hi := limits[0], limits[1]
	if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsNaN(hi) || math.IsInf(hi, 0) {
		return nil, errors.NewValidationError("data_limits", "bounds must be finite", limits)
	}
	if lo == hi {
		return nil, errors.NewValidationError("data_limits", "bounds must differ", limits)
	}
	return &family{name: name, numBasis: numBasis, limits: limits}, nil
}
