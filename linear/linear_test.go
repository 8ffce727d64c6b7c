package linear

import (
	"math"
	"math/rand"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/bayesreg/basis"
	"github.com/YuminosukeSato/bayesreg/pkg/errors"
	"github.com/YuminosukeSato/bayesreg/pkg/log"
)

func quietLogger() log.Logger {
	logger, _ := log.NewTestLogger(log.LevelError)
	return logger
}

// sineData returns n evenly spaced inputs on [-1, 1] and noisy sin(πx)
// targets.
func sineData(n int, noise float64, seed int64) (*mat.Dense, *mat.VecDense) {
	rng := rand.New(rand.NewSource(seed))
	xs := floats.Span(make([]float64, n), -1, 1)
	ys := make([]float64, n)
	for i, x := range xs {
		ys[i] = math.Sin(math.Pi*x) + noise*rng.NormFloat64()
	}
	return mat.NewDense(n, 1, xs), mat.NewVecDense(n, ys)
}

// duplicateBasis returns the raw input twice, so its design matrix always has
// rank one.
type duplicateBasis struct{}

func (duplicateBasis) Name() string           { return "duplicate" }
func (duplicateBasis) NumBasis() int          { return 2 }
func (duplicateBasis) DataLimits() [2]float64 { return [2]float64{-1, 1} }
func (duplicateBasis) Expand(x mat.Matrix) (*mat.Dense, error) {
	r, _ := x.Dims()
	out := mat.NewDense(r, 2, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, x.At(i, 0))
		out.Set(i, 1, x.At(i, 0))
	}
	return out, nil
}

func TestLMExactFit(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{0, 1, 2})
	y := mat.NewVecDense(3, []float64{0, 1, 2})
	b, err := basis.NewPolynomial(2, [2]float64{0, 2})
	require.NoError(t, err)

	m, err := NewLM(X, y, b, WithLogger(quietLogger()))
	require.NoError(t, err)
	require.NoError(t, m.Fit())

	ss, err := m.Objective()
	require.NoError(t, err)
	assert.InDelta(t, 0, ss, 1e-12)
	assert.InDelta(t, 0, m.Sigma2(), 1e-12)

	pred, err := m.Predict(mat.NewDense(1, 1, []float64{3}))
	require.NoError(t, err)
	assert.InDelta(t, 3, pred.AtVec(0), 1e-6)
}

func TestLMMatchesReferenceSolver(t *testing.T) {
	X, y := sineData(25, 0.1, 1)
	for _, cfg := range []basis.Config{
		{Family: basis.Polynomial, NumBasis: 4, DataLimits: [2]float64{-1, 1}},
		{Family: basis.Radial, NumBasis: 6, DataLimits: [2]float64{-1, 1}},
		{Family: basis.Fourier, NumBasis: 5, DataLimits: [2]float64{-1, 1}},
	} {
		t.Run(string(cfg.Family), func(t *testing.T) {
			b, err := basis.New(cfg)
			require.NoError(t, err)
			m, err := NewLM(X, y, b, WithLogger(quietLogger()))
			require.NoError(t, err)
			require.NoError(t, m.Fit())

			phi, err := b.Expand(X)
			require.NoError(t, err)
			var qr mat.QR
			qr.Factorize(phi)
			var want mat.VecDense
			require.NoError(t, qr.SolveVecTo(&want, false, y))

			assert.True(t, mat.EqualApprox(&want, m.Weights(), 1e-8))

			var wantFit mat.VecDense
			wantFit.MulVec(phi, &want)
			got, err := m.Predict(X)
			require.NoError(t, err)
			assert.True(t, mat.EqualApprox(&wantFit, got, 1e-8))

			ss, err := m.Objective()
			require.NoError(t, err)
			assert.InDelta(t, ss/25, m.Sigma2(), 1e-12)
		})
	}
}

// nearlyCollinearBasis returns a constant column and 1 + eps·x, which is full
// rank but badly conditioned for small eps.
type nearlyCollinearBasis struct{ eps float64 }

func (nearlyCollinearBasis) Name() string           { return "nearly_collinear" }
func (nearlyCollinearBasis) NumBasis() int          { return 2 }
func (nearlyCollinearBasis) DataLimits() [2]float64 { return [2]float64{-1, 1} }
func (b nearlyCollinearBasis) Expand(x mat.Matrix) (*mat.Dense, error) {
	r, _ := x.Dims()
	out := mat.NewDense(r, 2, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, 1)
		out.Set(i, 1, 1+b.eps*x.At(i, 0))
	}
	return out, nil
}

// panickingBasis panics on expansion.
type panickingBasis struct{}

func (panickingBasis) Name() string           { return "panicking" }
func (panickingBasis) NumBasis() int          { return 1 }
func (panickingBasis) DataLimits() [2]float64 { return [2]float64{-1, 1} }
func (panickingBasis) Expand(mat.Matrix) (*mat.Dense, error) {
	panic("expansion failed")
}

func TestNewReturnsBasisPanic(t *testing.T) {
	X, y := sineData(5, 0, 1)

	_, err := NewLM(X, y, panickingBasis{})
	var panicErr *errors.PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "NewLM", panicErr.Operation)

	_, err = NewBLM(X, y, 1, 1, panickingBasis{})
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "NewBLM", panicErr.Operation)
}

func TestLMIllConditionedWarning(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) {
		warnings = append(warnings, w)
	})
	t.Cleanup(func() { errors.SetWarningHandler(nil) })

	X, y := sineData(50, 0.1, 4)
	m, err := NewLM(X, y, nearlyCollinearBasis{eps: 1e-12},
		WithLogger(quietLogger()), WithRankTolerance(1e-14))
	require.NoError(t, err)
	require.NoError(t, m.Fit())
	assert.True(t, m.IsFitted())

	require.Len(t, warnings, 1)
	var ill *errors.IllConditionedWarning
	require.True(t, errors.As(warnings[0], &ill))
	assert.Equal(t, "LM.Fit", ill.Op)
	assert.Greater(t, ill.Cond, 1e10)
}

func TestFitMemoryIsLinearInData(t *testing.T) {
	const n = 6000
	X, y := sineData(n, 0.1, 5)
	b, err := basis.NewPolynomial(4, basis.DefaultDataLimits)
	require.NoError(t, err)

	lm, err := NewLM(X, y, b, WithLogger(quietLogger()))
	require.NoError(t, err)
	blm, err := NewBLM(X, y, 0.1, 0.01, b, WithLogger(quietLogger()))
	require.NoError(t, err)

	tests := []struct {
		name string
		fit  func() error
	}{
		{name: "LM", fit: lm.Fit},
		{name: "BLM", fit: blm.Fit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&before)
			require.NoError(t, tt.fit())
			runtime.ReadMemStats(&after)

			// An explicit n×n Q alone would be n²·8 bytes, about 288 MB.
			allocated := after.TotalAlloc - before.TotalAlloc
			assert.Less(t, allocated, uint64(16<<20), "allocated %d bytes", allocated)
		})
	}

	assert.True(t, lm.IsFitted())
	assert.True(t, blm.IsFitted())
}

func TestLMRankDeficiency(t *testing.T) {
	poly4, err := basis.NewPolynomial(4, basis.DefaultDataLimits)
	require.NoError(t, err)
	poly3, err := basis.NewPolynomial(3, basis.DefaultDataLimits)
	require.NoError(t, err)

	tests := []struct {
		name  string
		X     *mat.Dense
		y     *mat.VecDense
		basis basis.Basis
	}{
		{
			name:  "more basis functions than data",
			X:     mat.NewDense(3, 1, []float64{-0.5, 0, 0.5}),
			y:     mat.NewVecDense(3, []float64{1, 2, 3}),
			basis: poly4,
		},
		{
			name:  "duplicated columns",
			X:     mat.NewDense(4, 1, []float64{0.1, 0.2, 0.3, 0.4}),
			y:     mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			basis: duplicateBasis{},
		},
		{
			name:  "identical inputs",
			X:     mat.NewDense(5, 1, []float64{0.5, 0.5, 0.5, 0.5, 0.5}),
			y:     mat.NewVecDense(5, []float64{1, 2, 3, 4, 5}),
			basis: poly3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewLM(tt.X, tt.y, tt.basis, WithLogger(quietLogger()))
			require.NoError(t, err)

			err = m.Fit()
			require.Error(t, err)
			assert.True(t, errors.IsNumericalError(err))
			assert.True(t, errors.Is(err, errors.ErrSingularMatrix))

			var facErr *errors.FactorizationError
			require.True(t, errors.As(err, &facErr))
			assert.Equal(t, "qr", facErr.Method)

			assert.False(t, m.IsFitted())
			assert.Nil(t, m.Weights())
			assert.Equal(t, 1.0, m.Sigma2())
		})
	}
}

func TestLMLogLikelihoodMatchesPointwiseDensity(t *testing.T) {
	X, y := sineData(30, 0.2, 7)
	b, err := basis.NewRadial(5, basis.DefaultDataLimits)
	require.NoError(t, err)
	m, err := NewLM(X, y, b, WithLogger(quietLogger()))
	require.NoError(t, err)
	require.NoError(t, m.Fit())

	fitted, err := m.Predict(X)
	require.NoError(t, err)

	normal := distuv.Normal{Mu: 0, Sigma: math.Sqrt(m.Sigma2())}
	var want float64
	for i := 0; i < y.Len(); i++ {
		want += normal.LogProb(y.AtVec(i) - fitted.AtVec(i))
	}

	got, err := m.LogLikelihood()
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-8)
}

func TestLMLogLikelihoodAfterExactFitFails(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{-1, 1})
	y := mat.NewVecDense(2, []float64{0, 0})
	b, err := basis.NewPolynomial(1, basis.DefaultDataLimits)
	require.NoError(t, err)
	m, err := NewLM(X, y, b, WithLogger(quietLogger()))
	require.NoError(t, err)
	require.NoError(t, m.Fit())

	require.Equal(t, 0.0, m.Sigma2())
	_, err = m.LogLikelihood()
	require.Error(t, err)
	assert.True(t, errors.IsNumericalError(err))
}

func TestLMNotFitted(t *testing.T) {
	X, y := sineData(10, 0.1, 3)
	b, err := basis.NewPolynomial(3, basis.DefaultDataLimits)
	require.NoError(t, err)
	m, err := NewLM(X, y, b)
	require.NoError(t, err)

	_, err = m.Predict(X)
	assert.True(t, errors.IsNotFittedError(err))
	_, err = m.Objective()
	assert.True(t, errors.IsNotFittedError(err))
	_, err = m.LogLikelihood()
	assert.True(t, errors.IsNotFittedError(err))
	_, err = m.Score(X, y)
	assert.True(t, errors.IsNotFittedError(err))

	assert.Nil(t, m.Weights())
	assert.Equal(t, 1.0, m.Sigma2())
	assert.False(t, m.Params().IsFitted)
}

func TestNewLMValidation(t *testing.T) {
	b, err := basis.NewPolynomial(2, basis.DefaultDataLimits)
	require.NoError(t, err)

	_, err = NewLM(mat.NewDense(3, 1, nil), mat.NewVecDense(2, nil), b)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = NewLM(mat.NewDense(3, 2, nil), mat.NewVecDense(3, nil), b)
	assert.True(t, errors.As(err, &dimErr))

	_, err = NewLM(&mat.Dense{}, &mat.VecDense{}, b)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = NewLM(mat.NewDense(3, 1, nil), mat.NewVecDense(3, nil), nil)
	assert.True(t, errors.IsConfigError(err))

	_, err = NewLM(mat.NewDense(3, 1, nil), mat.NewVecDense(3, nil), b, WithRankTolerance(-1))
	assert.True(t, errors.IsConfigError(err))
}

func TestLMCopiesInputs(t *testing.T) {
	X, y := sineData(12, 0.1, 5)
	b, err := basis.NewPolynomial(3, basis.DefaultDataLimits)
	require.NoError(t, err)
	m, err := NewLM(X, y, b, WithLogger(quietLogger()))
	require.NoError(t, err)
	require.NoError(t, m.Fit())
	before, err := m.Objective()
	require.NoError(t, err)

	y.SetVec(0, 100)
	X.Set(0, 0, 0.9)

	after, err := m.Objective()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLMScoreAndParams(t *testing.T) {
	X, y := sineData(40, 0.05, 11)
	b, err := basis.NewFourier(5, [2]float64{-1, 1})
	require.NoError(t, err)
	m, err := NewLM(X, y, b, WithLogger(quietLogger()))
	require.NoError(t, err)
	require.NoError(t, m.Fit())

	r2, err := m.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, r2, 0.95)

	p := m.Params()
	require.NoError(t, p.Validate())
	assert.Equal(t, "LM", p.ModelType)
	assert.Equal(t, "fourier", p.Basis)
	assert.Equal(t, 5, p.NumBasis)
	assert.Equal(t, 40, p.NumData)
	assert.Equal(t, []float64{-1, 1}, p.DataLimits)

	p.Weights[0] = 1e6
	assert.NotEqual(t, 1e6, m.Weights().AtVec(0))
}

func TestLMLogsTraining(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	X, y := sineData(15, 0.1, 2)
	b, err := basis.NewRadial(4, basis.DefaultDataLimits)
	require.NoError(t, err)

	m, err := NewLM(X, y, b, WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, m.Fit())
	_, err = m.Predict(X)
	require.NoError(t, err)

	assert.True(t, logger.ContainsMessage("Training started"))
	assert.True(t, logger.ContainsMessage("Training completed"))
	assert.True(t, logger.ContainsMessage("Prediction completed"))
	assert.True(t, logger.ContainsField(log.ModelNameKey, "LM"))
	assert.True(t, logger.ContainsField(log.BasisKey, "radial"))
	assert.True(t, logger.ContainsField(log.SamplesKey, float64(15)))
}

func TestLMLogsFailure(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	m, err := NewLM(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewVecDense(3, []float64{1, 2, 3}), duplicateBasis{}, WithLogger(logger))
	require.NoError(t, err)
	require.Error(t, m.Fit())

	assert.True(t, logger.ContainsMessage("QR solve failed"))
	assert.True(t, logger.ContainsField(log.ErrorCodeKey, log.ErrorSingularMatrix))
}
