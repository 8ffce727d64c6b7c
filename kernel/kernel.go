// Package kernel provides covariance functions and assembles covariance
// matrices between input sets.
package kernel

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bayesreg/core/parallel"
	"github.com/YuminosukeSato/bayesreg/pkg/errors"
)

// Kernel is a symmetric positive semi-definite covariance function.
type Kernel interface {
	// Name returns the kernel name, e.g. "exponentiated_quadratic".
	Name() string

	// Eval returns the covariance between a and b, which have equal length.
	Eval(a, b []float64) float64

	// Params returns a copy of the hyper-parameters keyed by name.
	Params() map[string]float64
}

// ExponentiatedQuadratic is variance·exp(-0.5·‖a-b‖²/lengthscale²).
type ExponentiatedQuadratic struct {
	variance    float64
	lengthscale float64
}

// NewExponentiatedQuadratic returns an exponentiated quadratic kernel.
// Both parameters must be finite and positive.
func NewExponentiatedQuadratic(variance, lengthscale float64) (*ExponentiatedQuadratic, error) {
	if !(variance > 0) || math.IsInf(variance, 0) {
		return nil, errors.NewValidationError("variance", "must be positive and finite", variance)
	}
	if !(lengthscale > 0) || math.IsInf(lengthscale, 0) {
		return nil, errors.NewValidationError("lengthscale", "must be positive and finite", lengthscale)
	}
	return &ExponentiatedQuadratic{variance: variance, lengthscale: lengthscale}, nil
}

func (k *ExponentiatedQuadratic) Name() string { return string(EQ) }

// Variance returns the kernel variance, the value of Eval(a, a).
func (k *ExponentiatedQuadratic) Variance() float64 { return k.variance }

// Lengthscale returns the kernel lengthscale.
func (k *ExponentiatedQuadratic) Lengthscale() float64 { return k.lengthscale }

func (k *ExponentiatedQuadratic) Eval(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return k.variance * math.Exp(-0.5*d*d/(k.lengthscale*k.lengthscale))
}

func (k *ExponentiatedQuadratic) Params() map[string]float64 {
	return map[string]float64{
		"variance":    k.variance,
		"lengthscale": k.lengthscale,
	}
}

// Compute returns the covariance matrix between the rows of xa and xb:
// entry (i, j) is k.Eval(xa[i], xb[j]).
func Compute(xa, xb mat.Matrix, k Kernel) (*mat.Dense, error) {
	ra, ca := xa.Dims()
	rb, cb := xb.Dims()
	if ra == 0 || rb == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "kernel.Compute")
	}
	if ca != cb {
		return nil, errors.NewDimensionError("kernel.Compute", ca, cb, 1)
	}

	a := mat.DenseCopyOf(xa)
	b := mat.DenseCopyOf(xb)
	out := mat.NewDense(ra, rb, nil)
	parallel.ParallelizeWithThreshold(ra, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			ai := a.RawRowView(i)
			for j := 0; j < rb; j++ {
				out.Set(i, j, k.Eval(ai, b.RawRowView(j)))
			}
		}
	})
	return out, nil
}

// ComputeSym returns the covariance matrix of the rows of x with themselves.
// Only the upper triangle is evaluated, so the result is exactly symmetric.
func ComputeSym(x mat.Matrix, k Kernel) (*mat.SymDense, error) {
	n, _ := x.Dims()
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "kernel.ComputeSym")
	}

	a := mat.DenseCopyOf(x)
	out := mat.NewSymDense(n, nil)
	parallel.ParallelizeWithThreshold(n, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			ai := a.RawRowView(i)
			for j := i; j < n; j++ {
				out.SetSym(i, j, k.Eval(ai, a.RawRowView(j)))
			}
		}
	})
	return out, nil
}

// Diag returns k.Eval(x[i], x[i]) for every row of x.
func Diag(x mat.Matrix, k Kernel) *mat.VecDense {
	n, _ := x.Dims()
	a := mat.DenseCopyOf(x)
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		row := a.RawRowView(i)
		out.SetVec(i, k.Eval(row, row))
	}
	return out
}
