package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bayesreg/pkg/errors"
)

// qrSolution is the result of a least-squares solve through QR.
type qrSolution struct {
	w    *mat.VecDense
	r    *mat.TriDense // square upper factor, num_basis × num_basis
	cond float64
}

// solveQR factorises a = QR and solves R·w = Q[:n]ᵀ·y where n = len(y).
// For ordinary least squares n equals the number of rows of a; for the
// augmented ridge system y is padded with zeros up to the rows of a, which
// drops the prior rows from the projection. Qᵀ is applied through the
// Householder reflectors and is never formed.
func solveQR(op string, a *mat.Dense, y *mat.VecDense, tol float64) (*qrSolution, error) {
	m, p := a.Dims()
	n := y.Len()
	if p > m {
		return nil, errors.NewFactorizationError(op, "qr", math.Inf(1),
			errors.Wrapf(errors.ErrSingularMatrix, "%d basis functions but only %d rows", p, m))
	}

	var qr mat.QR
	qr.Factorize(a)
	cond := qr.Cond()

	var full mat.Dense
	qr.RTo(&full)
	r := mat.NewTriDense(p, mat.Upper, nil)
	r.Copy(full.Slice(0, p, 0, p))

	var maxDiag float64
	for i := 0; i < p; i++ {
		maxDiag = math.Max(maxDiag, math.Abs(r.At(i, i)))
	}
	for i := 0; i < p; i++ {
		if d := math.Abs(r.At(i, i)); maxDiag == 0 || d <= tol*maxDiag {
			return nil, errors.NewFactorizationError(op, "qr", cond,
				errors.Wrapf(errors.ErrSingularMatrix, "column %d is linearly dependent (|R_ii| = %.3g)", i, d))
		}
	}

	rhs := y
	if n < m {
		rhs = mat.NewVecDense(m, nil)
		rhs.SliceVec(0, n).(*mat.VecDense).CopyVec(y)
	}
	w := mat.NewVecDense(p, nil)
	if err := qr.SolveVecTo(w, false, rhs); err != nil {
		return nil, errors.NewFactorizationError(op, "qr", cond, errors.Wrap(errors.ErrSingularMatrix, err.Error()))
	}
	if err := errors.CheckMatrix(op, w); err != nil {
		return nil, err
	}

	if cond > illConditioned {
		errors.Warn(errors.NewIllConditionedWarning(op, cond))
	}
	return &qrSolution{w: w, r: r, cond: cond}, nil
}

// solveTriangular solves r·x = b, or rᵀ·x = b when trans is set. A
// mat.Condition from gonum is returned unchanged so callers can attach it to
// their own factorisation error.
func solveTriangular(r *mat.TriDense, trans bool, b mat.Matrix) (*mat.Dense, error) {
	var x mat.Dense
	if err := r.SolveTo(&x, trans, b); err != nil {
		return nil, err
	}
	return &x, nil
}
