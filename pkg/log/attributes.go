// Standard attribute keys for regression model logging. The keys follow a
// dotted hierarchy ("model.name", "data.samples") so log pipelines can filter
// on prefixes.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the model type: "LM", "BLM", "GP".
	ModelNameKey = "model.name"

	// ComponentKey identifies the package emitting the entry.
	ComponentKey = "ml.component"

	// OperationKey names the operation: "fit", "predict", "posterior".
	OperationKey = "ml.operation"

	// PhaseKey indicates the lifecycle phase: "training" or "inference".
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	// SamplesKey is the number of data rows.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of input columns.
	FeaturesKey = "data.features"

	// NumBasisKey is the number of basis functions (design matrix columns).
	NumBasisKey = "basis.num_basis"
)

// Model configuration.
const (
	BasisKey        = "basis.name"
	DataLimitsKey   = "basis.data_limits"
	KernelKey       = "kernel.name"
	KernelParamsKey = "kernel.params"
	AlphaKey        = "hyperparams.alpha"
	Sigma2Key       = "hyperparams.sigma2"
	RankTolKey      = "hyperparams.rank_tolerance"
)

// Results and performance.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// ObjectiveKey records the objective (sum of squares or negative log
	// likelihood) after a fit.
	ObjectiveKey = "metrics.objective"

	// LogLikelihoodKey records the log likelihood after a fit.
	LogLikelihoodKey = "metrics.log_likelihood"

	// LogDetKey records the log determinant of a covariance matrix.
	LogDetKey = "metrics.log_det"

	// ConditionKey records the estimated condition number of a factorisation.
	ConditionKey = "linalg.condition"

	// PredsKey is the number of predictions made.
	PredsKey = "preds.count"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationPosterior = "posterior"
	OperationScore     = "score"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorNotFitted      = "NOT_FITTED"
	ErrorSingularMatrix = "SINGULAR_MATRIX"
	ErrorNotPosDefinite = "NOT_POSITIVE_DEFINITE"
	ErrorInvalidConfig  = "INVALID_CONFIG"
)
