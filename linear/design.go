package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bayesreg/basis"
	"github.com/YuminosukeSato/bayesreg/metrics"
	"github.com/YuminosukeSato/bayesreg/pkg/errors"
	"github.com/YuminosukeSato/bayesreg/pkg/log"
)

// design is the data a basis model owns: its inputs, targets, basis and the
// design matrix they determine.
type design struct {
	x     *mat.Dense
	y     *mat.VecDense
	basis basis.Basis
	phi   *mat.Dense

	opts   options
	logger log.Logger
}

func newDesign(op, name string, X mat.Matrix, y mat.Vector, b basis.Basis, opts []Option) (_ *design, err error) {
	defer errors.Recover(&err, op)

	if b == nil {
		return nil, errors.NewValidationError("basis", "must not be nil", nil)
	}
	rows, _ := X.Dims()
	if rows == 0 || y.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	if y.Len() != rows {
		return nil, errors.NewDimensionError(op, rows, y.Len(), 0)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.rankTol >= 0) {
		return nil, errors.NewValidationError("rank_tolerance", "must be non-negative", o.rankTol)
	}

	d := &design{
		x:     mat.DenseCopyOf(X),
		y:     mat.VecDenseCopyOf(y),
		basis: b,
		opts:  o,
	}

	phi, err := b.Expand(d.x)
	if err != nil {
		return nil, errors.NewModelError(op, "basis expansion failed", err)
	}
	d.phi = phi

	logger := o.logger
	if logger == nil {
		logger = log.GetLoggerWithName("linear")
	}
	d.logger = logger.With(
		log.ModelNameKey, name,
		log.BasisKey, b.Name(),
		log.NumBasisKey, b.NumBasis(),
	)
	return d, nil
}

func (d *design) numData() int { return d.y.Len() }

// predict returns basis(X)·w.
func (d *design) predict(X mat.Matrix, w *mat.VecDense) (*mat.VecDense, error) {
	phi, err := d.basis.Expand(X)
	if err != nil {
		return nil, err
	}
	rows, _ := phi.Dims()
	out := mat.NewVecDense(rows, nil)
	out.MulVec(phi, w)
	return out, nil
}

// sumSquares recomputes Σ(y - Phi·w)² over the training data.
func (d *design) sumSquares(w *mat.VecDense) (float64, error) {
	f := mat.NewVecDense(d.numData(), nil)
	f.MulVec(d.phi, w)
	return metrics.SumSquares(d.y, f)
}

// score returns R² of basis(X)·w against y.
func (d *design) score(X mat.Matrix, y mat.Vector, w *mat.VecDense) (float64, error) {
	yPred, err := d.predict(X, w)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(y, yPred)
}

func copyWeights(w *mat.VecDense) []float64 {
	if w == nil {
		return nil
	}
	out := make([]float64, w.Len())
	for i := range out {
		out[i] = w.AtVec(i)
	}
	return out
}
