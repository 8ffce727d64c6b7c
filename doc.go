// Package bayesreg fits parametric and non-parametric regression models to
// one-dimensional data.
//
// # Models
//
//   - linear.LM: least squares over a basis expansion, solved through QR.
//     The noise variance is estimated from the residuals.
//   - linear.BLM: the ridge (Bayesian MAP) variant. The design matrix is
//     stacked on alpha·I and solved the same way; the noise variance is fixed.
//   - gp.GP: a Gaussian process. K + sigma2·I is Cholesky factorised once at
//     construction and reused for the likelihood, predictions and posterior.
//
// Basis functions (polynomial, radial, Fourier) live in package basis and
// covariance functions in package kernel. All three models satisfy
// model.Regressor: Predict, Objective, LogLikelihood and a Params snapshot
// that plotting code can read without touching model state.
//
// # Quick Start
//
//	X := mat.NewDense(3, 1, []float64{0, 1, 2})
//	y := mat.NewVecDense(3, []float64{0, 1, 2})
//
//	b, err := basis.NewPolynomial(2, [2]float64{0, 2})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := linear.NewLM(X, y, b)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := m.Fit(); err != nil {
//	    log.Fatal(err)
//	}
//	pred, _ := m.Predict(mat.NewDense(1, 1, []float64{3})) // ≈ 3
//
// # Errors
//
// Errors come from pkg/errors and fall into three groups that callers can
// test with errors.IsConfigError, errors.IsNumericalError and
// errors.IsNotFittedError. A numerical error means the factorisation could
// not be trusted (rank-deficient design, covariance not positive definite);
// the library never substitutes a pseudo-inverse or clamps values.
//
// # Logging
//
// Models log through pkg/log. The default back-end is zerolog writing
// warnings to stderr; log.SetupLogger switches to a JSON slog handler and
// log.SetProvider accepts any back-end.
package bayesreg
