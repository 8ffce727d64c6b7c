// Package gp implements Gaussian process regression with a Cholesky
// factorised covariance.
//
// A GP is fully determined by its training data, kernel and noise variance,
// so construction does all the work: it builds K, factors
// K + sigma2·I = RᵀR and caches log|K + sigma2·I| and yᵀ(K + sigma2·I)⁻¹y.
// Afterwards the value is read-only.
package gp

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bayesreg/core/model"
	"github.com/YuminosukeSato/bayesreg/kernel"
	"github.com/YuminosukeSato/bayesreg/pkg/errors"
	"github.com/YuminosukeSato/bayesreg/pkg/log"
)

const log2Pi = 1.8378770664093453 // log(2π)

// GP is a Gaussian process regressor.
type GP struct {
	model.BaseEstimator

	x      *mat.Dense
	y      *mat.VecDense
	kernel kernel.Kernel
	sigma2 float64

	k       *mat.SymDense
	r       *mat.TriDense // upper, RᵀR = K + sigma2·I
	logDetK float64
	z       *mat.VecDense // R⁻ᵀy
	yKinvy  float64
	weights *mat.VecDense // (K + sigma2·I)⁻¹y

	opts   options
	logger log.Logger
}

var _ model.Regressor = (*GP)(nil)

// New builds a GP over the rows of X with targets y, covariance function k
// and noise variance sigma2 > 0. It fails with a FactorizationError wrapping
// ErrNotPositiveDefinite when K + sigma2·I cannot be Cholesky factorised.
func New(X mat.Matrix, y mat.Vector, sigma2 float64, k kernel.Kernel, opts ...Option) (_ *GP, err error) {
	defer errors.Recover(&err, "gp.New")

	if k == nil {
		return nil, errors.NewValidationError("kernel", "must not be nil", nil)
	}
	if !(sigma2 > 0) || math.IsInf(sigma2, 0) {
		return nil, errors.NewValidationError("sigma2", "must be positive and finite", sigma2)
	}
	rows, _ := X.Dims()
	if rows == 0 || y.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "gp.New")
	}
	if y.Len() != rows {
		return nil, errors.NewDimensionError("gp.New", rows, y.Len(), 0)
	}

	o := options{varianceTol: DefaultVarianceTolerance}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = log.GetLoggerWithName("gp")
	}

	g := &GP{
		x:      mat.DenseCopyOf(X),
		y:      mat.VecDenseCopyOf(y),
		kernel: k,
		sigma2: sigma2,
		opts:   o,
		logger: logger.With(
			log.ModelNameKey, model.TypeGP,
			log.KernelKey, k.Name(),
			log.Sigma2Key, sigma2,
		),
	}

	start := time.Now()
	g.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.KernelParamsKey, k.Params(),
	)

	g.k, err = kernel.ComputeSym(g.x, k)
	if err != nil {
		return nil, errors.NewModelError("gp.New", "kernel evaluation failed", err)
	}
	if err := g.updateInverse(); err != nil {
		g.logger.Error("Cholesky factorization failed", err,
			log.OperationKey, log.OperationFit,
			log.ErrorCodeKey, log.ErrorNotPosDefinite,
			log.SuggestionKey, "increase sigma2 or remove near-duplicate inputs",
		)
		return nil, err
	}
	g.SetFitted()

	g.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.LogDetKey, g.logDetK,
		log.LogLikelihoodKey, g.logLikelihood(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return g, nil
}

// updateInverse factors K + sigma2·I = RᵀR and derives log|K + sigma2·I|,
// z = R⁻ᵀy, yᵀ(K + sigma2·I)⁻¹y = zᵀz and (K + sigma2·I)⁻¹y = R⁻¹z. The
// inverse itself is never formed.
func (g *GP) updateInverse() error {
	const op = "gp.updateInverse"
	n := g.y.Len()

	a := mat.NewSymDense(n, nil)
	a.CopySym(g.k)
	for i := 0; i < n; i++ {
		a.SetSym(i, i, a.At(i, i)+g.sigma2)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return errors.NewFactorizationError(op, "cholesky", math.Inf(1), errors.ErrNotPositiveDefinite)
	}
	cond := chol.Cond()

	var r mat.TriDense
	chol.UTo(&r)

	var logDet float64
	for i := 0; i < n; i++ {
		logDet += math.Log(r.At(i, i))
	}
	logDet *= 2

	var z, w mat.Dense
	if err := r.SolveTo(&z, true, g.y); err != nil {
		return errors.NewFactorizationError(op, "cholesky", cond, errors.Wrap(errors.ErrNotPositiveDefinite, err.Error()))
	}
	if err := r.SolveTo(&w, false, &z); err != nil {
		return errors.NewFactorizationError(op, "cholesky", cond, errors.Wrap(errors.ErrNotPositiveDefinite, err.Error()))
	}

	zv := mat.NewVecDense(n, z.RawMatrix().Data)
	yKinvy := mat.Dot(zv, zv)
	if err := errors.CheckNumericalStability(op, []float64{logDet, yKinvy}); err != nil {
		return err
	}
	if cond > illConditioned {
		errors.Warn(errors.NewIllConditionedWarning(op, cond))
	}

	g.r = &r
	g.logDetK = logDet
	g.z = zv
	g.yKinvy = yKinvy
	g.weights = mat.NewVecDense(n, w.RawMatrix().Data)
	return nil
}

func (g *GP) logLikelihood() float64 {
	n := float64(g.y.Len())
	return -0.5 * (n*log2Pi + g.logDetK + g.yKinvy)
}

// LogLikelihood returns the log marginal likelihood
// -0.5·(n·log(2π) + log|K + sigma2·I| + yᵀ(K + sigma2·I)⁻¹y).
func (g *GP) LogLikelihood() (float64, error) {
	if err := g.RequireFitted(model.TypeGP, "LogLikelihood"); err != nil {
		return 0, err
	}
	ll := g.logLikelihood()
	if err := errors.CheckScalar("GP.LogLikelihood", ll); err != nil {
		return 0, err
	}
	return ll, nil
}

// Objective returns the negative log marginal likelihood.
func (g *GP) Objective() (float64, error) {
	ll, err := g.LogLikelihood()
	if err != nil {
		return 0, err
	}
	return -ll, nil
}

// InverseCovariance returns (K + sigma2·I)⁻¹, built from two triangular
// solves against R. It allocates an n×n matrix on every call; Posterior and
// Predict do not need it.
func (g *GP) InverseCovariance() (*mat.SymDense, error) {
	const op = "GP.InverseCovariance"
	if err := g.RequireFitted(model.TypeGP, "InverseCovariance"); err != nil {
		return nil, err
	}
	n := g.y.Len()
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}

	var rInvT, inv mat.Dense
	if err := g.r.SolveTo(&rInvT, true, mat.NewDiagDense(n, ones)); err != nil {
		return nil, errors.NewFactorizationError(op, "cholesky", math.Inf(1), errors.Wrap(errors.ErrNotPositiveDefinite, err.Error()))
	}
	if err := g.r.SolveTo(&inv, false, &rInvT); err != nil {
		return nil, errors.NewFactorizationError(op, "cholesky", math.Inf(1), errors.Wrap(errors.ErrNotPositiveDefinite, err.Error()))
	}

	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.SetSym(i, j, 0.5*(inv.At(i, j)+inv.At(j, i)))
		}
	}
	return out, nil
}

// NumData returns the number of training points.
func (g *GP) NumData() int { return g.y.Len() }

// Sigma2 returns the noise variance.
func (g *GP) Sigma2() float64 { return g.sigma2 }

// Kernel returns the covariance function.
func (g *GP) Kernel() kernel.Kernel { return g.kernel }

// LogDetK returns log|K + sigma2·I|.
func (g *GP) LogDetK() float64 { return g.logDetK }

// Params returns a snapshot of the model.
func (g *GP) Params() model.Params {
	return model.Params{
		ModelType:    model.TypeGP,
		Kernel:       g.kernel.Name(),
		KernelParams: g.kernel.Params(),
		NumData:      g.y.Len(),
		Sigma2:       g.sigma2,
		IsFitted:     g.IsFitted(),
	}
}
