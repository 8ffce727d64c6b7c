// Package model holds what the regression models share: the fitted-state
// flag, the capability interfaces a read-only consumer (such as a plotting
// layer) programs against, and the Params snapshot those consumers read.
package model

import (
	"github.com/YuminosukeSato/bayesreg/pkg/errors"
)

// EstimatorState is the fit state of a model.
type EstimatorState int

const (
	// NotFitted means no successful fit has happened yet.
	NotFitted EstimatorState = iota
	// Fitted means all derived fields are consistent with the current data.
	Fitted
)

// BaseEstimator tracks whether a model has been fitted. Models embed it.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the model has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the model as fitted. Call only after every derived field
// has been committed.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset marks the model as not fitted.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

// RequireFitted returns a NotFittedError naming modelName and method unless
// the model is fitted.
func (e *BaseEstimator) RequireFitted(modelName, method string) error {
	if !e.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}
