package linear

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bayesreg/basis"
	"github.com/YuminosukeSato/bayesreg/core/model"
	"github.com/YuminosukeSato/bayesreg/metrics"
	"github.com/YuminosukeSato/bayesreg/pkg/errors"
	"github.com/YuminosukeSato/bayesreg/pkg/log"
)

// BLM is a Bayesian linear model: least squares with a zero-mean Gaussian
// prior on the weights, fitted as the augmented system [Phi; alpha·I].
// sigma2 is fixed at construction and never re-estimated.
type BLM struct {
	model.BaseEstimator
	*design

	alpha  float64
	sigma2 float64

	muW *mat.VecDense
	r   *mat.TriDense
}

var _ model.Regressor = (*BLM)(nil)

// NewBLM copies X and y, expands X under b and returns an unfitted model.
// alpha scales the prior block and sigma2 is the noise variance; both must be
// positive.
func NewBLM(X mat.Matrix, y mat.Vector, alpha, sigma2 float64, b basis.Basis, opts ...Option) (*BLM, error) {
	if !(alpha > 0) || math.IsInf(alpha, 0) {
		return nil, errors.NewValidationError("alpha", "must be positive and finite", alpha)
	}
	if !(sigma2 > 0) || math.IsInf(sigma2, 0) {
		return nil, errors.NewValidationError("sigma2", "must be positive and finite", sigma2)
	}
	d, err := newDesign("NewBLM", model.TypeBLM, X, y, b, opts)
	if err != nil {
		return nil, err
	}
	d.logger = d.logger.With(log.AlphaKey, alpha, log.Sigma2Key, sigma2)
	return &BLM{design: d, alpha: alpha, sigma2: sigma2}, nil
}

// Fit computes the posterior mean weights mu_w. The QR factorisation is of
// the (num_data+num_basis) × num_basis matrix [Phi; alpha·I]; only the first
// num_data rows of Q project y.
func (m *BLM) Fit() (err error) {
	defer errors.Recover(&err, "BLM.Fit")

	start := time.Now()
	n, p := m.phi.Dims()
	m.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, n,
	)

	prior := make([]float64, p)
	for i := range prior {
		prior[i] = m.alpha
	}
	var augmented mat.Dense
	augmented.Stack(m.phi, mat.NewDiagDense(p, prior))

	sol, err := solveQR("BLM.Fit", &augmented, m.y, m.opts.rankTol)
	if err != nil {
		m.logger.Error("QR solve failed", err,
			log.OperationKey, log.OperationFit,
			log.ErrorCodeKey, log.ErrorSingularMatrix,
			log.SuggestionKey, "increase alpha",
		)
		return err
	}

	ss, err := m.sumSquares(sol.w)
	if err != nil {
		return err
	}

	m.muW = sol.w
	m.r = sol.r
	m.SetFitted()

	m.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.ObjectiveKey, ss,
		log.ConditionKey, sol.cond,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict returns the posterior mean prediction basis(X)·mu_w.
func (m *BLM) Predict(X mat.Matrix) (pred *mat.VecDense, err error) {
	defer errors.Recover(&err, "BLM.Predict")
	if err := m.RequireFitted(model.TypeBLM, "Predict"); err != nil {
		return nil, err
	}
	pred, err = m.predict(X, m.muW)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PredsKey, pred.Len(),
	)
	return pred, nil
}

// Objective returns the sum of squared training residuals under mu_w.
func (m *BLM) Objective() (float64, error) {
	if err := m.RequireFitted(model.TypeBLM, "Objective"); err != nil {
		return 0, err
	}
	return m.sumSquares(m.muW)
}

// LogLikelihood returns the Gaussian log likelihood of the training
// residuals under the fixed noise variance.
func (m *BLM) LogLikelihood() (float64, error) {
	ss, err := m.Objective()
	if err != nil {
		return 0, err
	}
	return metrics.GaussianLogLikelihood(m.numData(), ss, m.sigma2)
}

// Score returns the coefficient of determination of the predictions on X
// against y.
func (m *BLM) Score(X mat.Matrix, y mat.Vector) (float64, error) {
	if err := m.RequireFitted(model.TypeBLM, "Score"); err != nil {
		return 0, err
	}
	return m.score(X, y, m.muW)
}

// WeightCovariance returns sigma2·(RᵀR)⁻¹, the posterior covariance of the
// weights, where RᵀR = PhiᵀPhi + alpha²I.
func (m *BLM) WeightCovariance() (*mat.SymDense, error) {
	if err := m.RequireFitted(model.TypeBLM, "WeightCovariance"); err != nil {
		return nil, err
	}
	p := m.basis.NumBasis()
	ones := make([]float64, p)
	for i := range ones {
		ones[i] = 1
	}
	rInv, err := solveTriangular(m.r, false, mat.NewDiagDense(p, ones))
	if err != nil {
		return nil, errors.NewFactorizationError("BLM.WeightCovariance", "qr", math.Inf(1),
			errors.Wrap(errors.ErrSingularMatrix, err.Error()))
	}
	cov := mat.NewSymDense(p, nil)
	cov.SymOuterK(m.sigma2, rInv)
	return cov, nil
}

// PredictVariance returns the variance of the noise-free prediction at each
// row of X: sigma2·‖R⁻ᵀφ(x)‖².
func (m *BLM) PredictVariance(X mat.Matrix) (*mat.VecDense, error) {
	if err := m.RequireFitted(model.TypeBLM, "PredictVariance"); err != nil {
		return nil, err
	}
	phi, err := m.basis.Expand(X)
	if err != nil {
		return nil, err
	}
	v, err := solveTriangular(m.r, true, phi.T())
	if err != nil {
		return nil, errors.NewFactorizationError("BLM.PredictVariance", "qr", math.Inf(1),
			errors.Wrap(errors.ErrSingularMatrix, err.Error()))
	}

	p, rows := v.Dims()
	out := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		var s float64
		for k := 0; k < p; k++ {
			s += v.At(k, i) * v.At(k, i)
		}
		out.SetVec(i, m.sigma2*s)
	}
	return out, nil
}

// Weights returns a copy of mu_w, or nil before a successful fit.
func (m *BLM) Weights() *mat.VecDense {
	if !m.IsFitted() {
		return nil
	}
	return mat.VecDenseCopyOf(m.muW)
}

// Alpha returns the prior scale.
func (m *BLM) Alpha() float64 { return m.alpha }

// Sigma2 returns the fixed noise variance.
func (m *BLM) Sigma2() float64 { return m.sigma2 }

// NumBasis returns the number of basis functions.
func (m *BLM) NumBasis() int { return m.basis.NumBasis() }

// NumData returns the number of training points.
func (m *BLM) NumData() int { return m.numData() }

// Basis returns the basis the model was built with.
func (m *BLM) Basis() basis.Basis { return m.basis }

// Params returns a snapshot of the model.
func (m *BLM) Params() model.Params {
	limits := m.basis.DataLimits()
	return model.Params{
		ModelType:  model.TypeBLM,
		Basis:      m.basis.Name(),
		NumBasis:   m.basis.NumBasis(),
		DataLimits: limits[:],
		NumData:    m.numData(),
		Weights:    copyWeights(m.Weights()),
		Sigma2:     m.sigma2,
		Alpha:      m.alpha,
		IsFitted:   m.IsFitted(),
	}
}
