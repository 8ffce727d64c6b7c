package linear

import (
	"github.com/YuminosukeSato/bayesreg/pkg/log"
)

// DefaultRankTolerance is the relative size below which a diagonal entry of
// the QR factor R marks the design matrix as rank deficient.
const DefaultRankTolerance = 1e-10

// illConditioned is the condition number above which a successful fit still
// raises an IllConditionedWarning.
const illConditioned = 1e10

type options struct {
	logger  log.Logger
	rankTol float64
}

func defaultOptions() options {
	return options{rankTol: DefaultRankTolerance}
}

// Option configures an LM or BLM.
type Option func(*options)

// WithLogger sets the logger. Models use log.GetLoggerWithName("linear")
// when no logger is given.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRankTolerance sets the relative tolerance used to detect rank
// deficiency: the fit fails if any |R_ii| <= tol·max_j |R_jj|.
func WithRankTolerance(tol float64) Option {
	return func(o *options) {
		o.rankTol = tol
	}
}
