// Package errors provides the error taxonomy and warning system shared by all
// bayesreg models.
//
// Errors fall into three groups:
//
//   - configuration errors (ValidationError, DimensionError, ErrEmptyData),
//     raised eagerly when a basis, kernel or model is built;
//   - numerical errors (FactorizationError, NumericalInstabilityError), raised
//     when a QR or Cholesky factorisation cannot produce a trustworthy answer;
//   - precondition errors (NotFittedError), raised when a fitted quantity is
//     read before a successful fit.
//
// Every constructor attaches a stack trace through cockroachdb/errors, and the
// structured types implement zerolog.LogObjectMarshaler so they can be logged
// field by field.
package errors

import (
	"fmt"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningLogger  = zerolog.New(os.Stderr).With().Timestamp().Str("component", "bayesreg").Logger()
	warningHandler = defaultWarningHandler
)

func defaultWarningHandler(w error) {
	event := warningLogger.Warn()
	if m, ok := w.(zerolog.LogObjectMarshaler); ok {
		event = event.Object("warning", m)
	}
	event.Msg(w.Error())
}

// SetWarningHandler replaces the handler used by Warn. Passing nil restores
// the default zerolog handler writing to stderr.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // drop warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	if handler == nil {
		handler = defaultWarningHandler
	}
	warningHandler = handler
}

// Warn reports a non-fatal condition through the active warning handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler(w)
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// IllConditionedWarning is raised when a factorisation succeeded but its
// condition number is large enough that the solution may have lost precision.
type IllConditionedWarning struct {
	Op   string
	Cond float64
}

func (w *IllConditionedWarning) Error() string {
	return fmt.Sprintf("%s: matrix is ill-conditioned (condition number %.4e); results may be inaccurate", w.Op, w.Cond)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *IllConditionedWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Float64("condition", w.Cond).
		Str("type", "IllConditionedWarning")
}

// NewIllConditionedWarning creates an IllConditionedWarning.
func NewIllConditionedWarning(op string, cond float64) *IllConditionedWarning {
	return &IllConditionedWarning{Op: op, Cond: cond}
}

// NegativeVarianceWarning is raised when a predictive variance comes out
// below zero by more than rounding. The value is reported as computed.
type NegativeVarianceWarning struct {
	Op    string
	Index int
	Value float64
}

func (w *NegativeVarianceWarning) Error() string {
	return fmt.Sprintf("%s: predictive variance at index %d is negative (%.6g); kernel or noise may be badly conditioned", w.Op, w.Index, w.Value)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *NegativeVarianceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Int("index", w.Index).
		Float64("value", w.Value).
		Str("type", "NegativeVarianceWarning")
}

// NewNegativeVarianceWarning creates a NegativeVarianceWarning.
func NewNegativeVarianceWarning(op string, index int, value float64) *NegativeVarianceWarning {
	return &NegativeVarianceWarning{Op: op, Index: index, Value: value}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when a fitted quantity is requested from a model
// that has not completed a successful Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("bayesreg: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError is returned when an input has the wrong number of rows or
// columns.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("bayesreg: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError is returned when a hyper-parameter or configuration value
// is outside its valid range.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bayesreg: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ModelError is a general model failure wrapping a sentinel cause.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bayesreg: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("bayesreg: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// FactorizationError is returned when a QR or Cholesky factorisation, or the
// triangular solve that follows it, cannot produce a reliable result.
// Cond is the estimated condition number when one is known, +Inf otherwise.
type FactorizationError struct {
	Op     string
	Method string // "qr" or "cholesky"
	Cond   float64
	Err    error
}

func (e *FactorizationError) Error() string {
	return fmt.Sprintf("bayesreg: %s: %s factorization failed (condition number %.4e): %v", e.Op, e.Method, e.Cond, e.Err)
}

func (e *FactorizationError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *FactorizationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("method", e.Method).
		Float64("condition", e.Cond).
		Str("cause", fmt.Sprint(e.Err)).
		Str("type", "FactorizationError")
}

// NewFactorizationError creates a FactorizationError with a stack trace.
func NewFactorizationError(op, method string, cond float64, cause error) error {
	err := &FactorizationError{Op: op, Method: method, Cond: cond, Err: cause}
	return errors.WithStack(err)
}

// NumericalInstabilityError is returned when a computed quantity is NaN, Inf,
// or otherwise outside the domain of the formula that consumes it.
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
	Reason    string
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	if e.Reason != "" {
		return fmt.Sprintf("bayesreg: numerical instability detected in %s: %s. Values: [%s]", e.Operation, e.Reason, valStr)
	}
	return fmt.Sprintf("bayesreg: numerical instability detected in %s. Values: [%s]", e.Operation, valStr)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Floats64("values", e.Values).
		Str("reason", e.Reason).
		Str("type", "NumericalInstabilityError")
}

// NewNumericalInstabilityError creates a NumericalInstabilityError with a
// stack trace.
func NewNumericalInstabilityError(operation, reason string, values []float64) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Reason:    reason,
	}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates an error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// CombineErrors returns err with other attached as a secondary error. If err
// is nil it returns other.
func CombineErrors(err, other error) error {
	return errors.CombineErrors(err, other)
}

// WithStack attaches a stack trace to err.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when a dataset or input matrix has no rows.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a least-squares system is rank
	// deficient or its triangular factor is singular.
	ErrSingularMatrix = New("singular matrix")

	// ErrNotPositiveDefinite is returned when a covariance matrix cannot be
	// Cholesky factorised.
	ErrNotPositiveDefinite = New("matrix is not positive definite")
)
