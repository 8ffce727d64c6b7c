package linear

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bayesreg/basis"
	"github.com/YuminosukeSato/bayesreg/core/model"
	"github.com/YuminosukeSato/bayesreg/metrics"
	"github.com/YuminosukeSato/bayesreg/pkg/errors"
	"github.com/YuminosukeSato/bayesreg/pkg/log"
)

// LM is an ordinary least-squares linear model over a basis expansion.
type LM struct {
	model.BaseEstimator
	*design

	wStar  *mat.VecDense
	sigma2 float64
}

var _ model.Regressor = (*LM)(nil)

// NewLM copies X and y, expands X under b and returns an unfitted model.
// X must have one column and as many rows as y has entries.
func NewLM(X mat.Matrix, y mat.Vector, b basis.Basis, opts ...Option) (*LM, error) {
	d, err := newDesign("NewLM", model.TypeLM, X, y, b, opts)
	if err != nil {
		return nil, err
	}
	return &LM{design: d, sigma2: 1}, nil
}

// Fit computes w_star by QR and sets sigma2 to the mean squared residual. If
// the design matrix is rank deficient Fit returns a FactorizationError and the
// previous fit, if any, is kept.
func (m *LM) Fit() (err error) {
	defer errors.Recover(&err, "LM.Fit")

	start := time.Now()
	n, p := m.phi.Dims()
	m.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, n,
	)

	sol, err := solveQR("LM.Fit", m.phi, m.y, m.opts.rankTol)
	if err != nil {
		m.logger.Error("QR solve failed", err,
			log.OperationKey, log.OperationFit,
			log.ErrorCodeKey, log.ErrorSingularMatrix,
			log.SuggestionKey, "reduce num_basis or remove duplicate inputs",
		)
		return err
	}

	ss, err := m.sumSquares(sol.w)
	if err != nil {
		return err
	}

	m.wStar = sol.w
	m.sigma2 = ss / float64(n)
	m.SetFitted()

	m.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.NumBasisKey, p,
		log.ObjectiveKey, ss,
		log.Sigma2Key, m.sigma2,
		log.ConditionKey, sol.cond,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict returns basis(X)·w_star.
func (m *LM) Predict(X mat.Matrix) (pred *mat.VecDense, err error) {
	defer errors.Recover(&err, "LM.Predict")
	if err := m.RequireFitted(model.TypeLM, "Predict"); err != nil {
		return nil, err
	}
	pred, err = m.predict(X, m.wStar)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PredsKey, pred.Len(),
	)
	return pred, nil
}

// Objective returns the sum of squared training residuals, recomputed on
// every call.
func (m *LM) Objective() (float64, error) {
	if err := m.RequireFitted(model.TypeLM, "Objective"); err != nil {
		return 0, err
	}
	return m.sumSquares(m.wStar)
}

// LogLikelihood returns the Gaussian log likelihood of the training data
// under noise variance sigma2. It fails when sigma2 is zero, which happens
// after an exact fit.
func (m *LM) LogLikelihood() (float64, error) {
	ss, err := m.Objective()
	if err != nil {
		return 0, err
	}
	return metrics.GaussianLogLikelihood(m.numData(), ss, m.sigma2)
}

// Score returns the coefficient of determination of the predictions on X
// against y.
func (m *LM) Score(X mat.Matrix, y mat.Vector) (float64, error) {
	if err := m.RequireFitted(model.TypeLM, "Score"); err != nil {
		return 0, err
	}
	return m.score(X, y, m.wStar)
}

// Weights returns a copy of w_star, or nil before a successful fit.
func (m *LM) Weights() *mat.VecDense {
	if !m.IsFitted() {
		return nil
	}
	return mat.VecDenseCopyOf(m.wStar)
}

// Sigma2 returns the estimated noise variance. It is 1 before the first fit.
func (m *LM) Sigma2() float64 { return m.sigma2 }

// NumBasis returns the number of basis functions.
func (m *LM) NumBasis() int { return m.basis.NumBasis() }

// NumData returns the number of training points.
func (m *LM) NumData() int { return m.numData() }

// Basis returns the basis the model was built with.
func (m *LM) Basis() basis.Basis { return m.basis }

// Params returns a snapshot of the model.
func (m *LM) Params() model.Params {
	limits := m.basis.DataLimits()
	return model.Params{
		ModelType:  model.TypeLM,
		Basis:      m.basis.Name(),
		NumBasis:   m.basis.NumBasis(),
		DataLimits: limits[:],
		NumData:    m.numData(),
		Weights:    copyWeights(m.Weights()),
		Sigma2:     m.sigma2,
		IsFitted:   m.IsFitted(),
	}
}
