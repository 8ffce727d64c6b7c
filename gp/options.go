package gp

import (
	"github.com/YuminosukeSato/bayesreg/pkg/log"
)

// DefaultVarianceTolerance is how far below zero a posterior variance may
// fall, relative to the prior variance at that point, before a
// NegativeVarianceWarning is raised.
const DefaultVarianceTolerance = 1e-10

// illConditioned is the condition number of K + sigma2·I above which
// construction raises an IllConditionedWarning.
const illConditioned = 1e10

type options struct {
	logger      log.Logger
	varianceTol float64
}

// Option configures a GP.
type Option func(*options)

// WithLogger sets the logger. A GP uses log.GetLoggerWithName("gp") when no
// logger is given.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithVarianceTolerance sets the relative tolerance for negative posterior
// variances.
func WithVarianceTolerance(tol float64) Option {
	return func(o *options) {
		o.varianceTol = tol
	}
}
