package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is implemented by models that are fitted explicitly after
// construction.
type Fitter interface {
	// Fit computes the model parameters from the data the model owns.
	Fit() error
}

// Predictor is implemented by every model.
type Predictor interface {
	// Predict returns one prediction per row of X.
	Predict(X mat.Matrix) (*mat.VecDense, error)
}

// Likelihood exposes the objective a model minimises and its log likelihood.
type Likelihood interface {
	// Objective returns the value the fit minimises: the sum of squared
	// residuals for basis models, the negative log likelihood for a GP.
	Objective() (float64, error)

	// LogLikelihood returns the Gaussian log likelihood of the training data.
	LogLikelihood() (float64, error)
}

// Parameterized exposes a read-only snapshot of model parameters.
type Parameterized interface {
	Params() Params
}

// Regressor is the contract shared by LM, BLM and GP.
type Regressor interface {
	Predictor
	Likelihood
	Parameterized
}
