// Package linear fits linear models over a basis expansion.
//
// LM is ordinary least squares: the design matrix Phi = basis(X) is QR
// factorised and R·w = Qᵀy is solved by back substitution. The noise
// variance is then estimated as the mean squared residual.
//
// BLM is the ridge (Bayesian MAP) variant. Phi is stacked on alpha·I and the
// augmented system is solved the same way, which is equivalent to a zero-mean
// Gaussian prior on the weights. Its noise variance is fixed at construction.
//
// Both models copy their inputs, hold no locks and are not safe for
// concurrent mutation. Independent instances may be fitted in parallel.
//
// Example:
//
//	b, _ := basis.NewPolynomial(2, [2]float64{0, 2})
//	m, err := linear.NewLM(X, y, b)
//	if err != nil {
//	    return err
//	}
//	if err := m.Fit(); err != nil {
//	    return err
//	}
//	yHat, _ := m.Predict(Xtest)
package linear
