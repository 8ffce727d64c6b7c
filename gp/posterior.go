package gp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bayesreg/core/model"
	"github.com/YuminosukeSato/bayesreg/kernel"
	"github.com/YuminosukeSato/bayesreg/pkg/errors"
	"github.com/YuminosukeSato/bayesreg/pkg/log"
)

// Posterior returns the posterior mean and covariance of the noise-free
// function at the rows of xTest:
//
//	mu_f = K*ᵀ(K + sigma2·I)⁻¹y
//	C_f  = K** - K*ᵀ(K + sigma2·I)⁻¹K*
//
// where K* is the train-test covariance and K** the test-test covariance.
// Both are computed through V = R⁻ᵀK*, so C_f = K** - VᵀV is symmetric by
// construction. A diagonal entry below zero by more than the variance
// tolerance raises a NegativeVarianceWarning; values are never clamped.
func (g *GP) Posterior(xTest mat.Matrix) (mean *mat.VecDense, cov *mat.SymDense, err error) {
	const op = "GP.Posterior"
	defer errors.Recover(&err, op)
	if err := g.RequireFitted(model.TypeGP, "Posterior"); err != nil {
		return nil, nil, err
	}

	kStar, err := kernel.Compute(g.x, xTest, g.kernel)
	if err != nil {
		return nil, nil, err
	}
	kStarStar, err := kernel.ComputeSym(xTest, g.kernel)
	if err != nil {
		return nil, nil, err
	}

	var v mat.Dense
	if err := g.r.SolveTo(&v, true, kStar); err != nil {
		return nil, nil, errors.NewFactorizationError(op, "cholesky", math.Inf(1),
			errors.Wrap(errors.ErrNotPositiveDefinite, err.Error()))
	}

	_, m := kStar.Dims()
	mean = mat.NewVecDense(m, nil)
	mean.MulVec(v.T(), g.z)

	cov = mat.NewSymDense(m, nil)
	cov.SymRankK(kStarStar, -1, v.T())

	for i := 0; i < m; i++ {
		d := cov.At(i, i)
		if d < -g.opts.varianceTol*math.Max(1, kStarStar.At(i, i)) {
			errors.Warn(errors.NewNegativeVarianceWarning(op, i, d))
		}
	}

	g.logger.Debug("Posterior computed",
		log.OperationKey, log.OperationPosterior,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, m,
	)
	return mean, cov, nil
}

// Predict returns the posterior mean at the rows of X.
func (g *GP) Predict(X mat.Matrix) (pred *mat.VecDense, err error) {
	defer errors.Recover(&err, "GP.Predict")
	if err := g.RequireFitted(model.TypeGP, "Predict"); err != nil {
		return nil, err
	}

	kStar, err := kernel.Compute(g.x, X, g.kernel)
	if err != nil {
		return nil, err
	}
	_, m := kStar.Dims()
	pred = mat.NewVecDense(m, nil)
	pred.MulVec(kStar.T(), g.weights)

	g.logger.Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PredsKey, m,
	)
	return pred, nil
}

// PredictVariance returns the diagonal of the posterior covariance at the
// rows of X without forming the full test-test covariance.
func (g *GP) PredictVariance(X mat.Matrix) (*mat.VecDense, error) {
	const op = "GP.PredictVariance"
	if err := g.RequireFitted(model.TypeGP, "PredictVariance"); err != nil {
		return nil, err
	}

	kStar, err := kernel.Compute(g.x, X, g.kernel)
	if err != nil {
		return nil, err
	}
	var v mat.Dense
	if err := g.r.SolveTo(&v, true, kStar); err != nil {
		return nil, errors.NewFactorizationError(op, "cholesky", math.Inf(1),
			errors.Wrap(errors.ErrNotPositiveDefinite, err.Error()))
	}

	prior := kernel.Diag(X, g.kernel)
	n, m := v.Dims()
	out := mat.NewVecDense(m, nil)
	for j := 0; j < m; j++ {
		var s float64
		for i := 0; i < n; i++ {
			s += v.At(i, j) * v.At(i, j)
		}
		d := prior.AtVec(j) - s
		if d < -g.opts.varianceTol*math.Max(1, prior.AtVec(j)) {
			errors.Warn(errors.NewNegativeVarianceWarning(op, j, d))
		}
		out.SetVec(j, d)
	}
	return out, nil
}
