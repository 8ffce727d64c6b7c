package errors

// IsConfigError reports whether err is a configuration error: an invalid
// hyper-parameter, a shape mismatch or an empty dataset. Retrying with the
// same configuration cannot succeed.
func IsConfigError(err error) bool {
	var valErr *ValidationError
	var dimErr *DimensionError
	return As(err, &valErr) || As(err, &dimErr) || Is(err, ErrEmptyData)
}

// IsNumericalError reports whether err is a numerical failure of a
// factorisation or likelihood. The caller may retry with different
// hyper-parameters (larger noise variance, fewer basis functions, another
// prior scale).
func IsNumericalError(err error) bool {
	var facErr *FactorizationError
	var numErr *NumericalInstabilityError
	return As(err, &facErr) || As(err, &numErr)
}

// IsNotFittedError reports whether err is a precondition error raised by
// using a model before a successful fit.
func IsNotFittedError(err error) bool {
	var nfErr *NotFittedError
	return As(err, &nfErr)
}
