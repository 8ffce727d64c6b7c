package errors

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "LM.Fit",
			kind:    "empty data",
			err:     fmt.Errorf("no rows"),
			wantMsg: "bayesreg: LM.Fit: empty data: no rows",
		},
		{
			name:    "without original error",
			op:      "GP.Posterior",
			kind:    "not factorized",
			err:     nil,
			wantMsg: "bayesreg: GP.Posterior: not factorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("basis.Expand", 1, 3, 1)

	want := "bayesreg: basis.Expand: dimension mismatch on axis 1 (columns). Expected 1, got 3"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("LM", "Predict")

	want := "bayesreg: LM: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
	if !IsNotFittedError(err) {
		t.Error("Expected IsNotFittedError to be true")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("lengthscale", "must be positive", -1.0)

	assert.Equal(t, "bayesreg: validation failed for parameter 'lengthscale': must be positive (got: -1)", err.Error())
	assert.True(t, IsConfigError(err))
	assert.False(t, IsNumericalError(err))
}

func TestFactorizationError(t *testing.T) {
	err := NewFactorizationError("GP.New", "cholesky", math.Inf(1), ErrNotPositiveDefinite)

	assert.True(t, Is(err, ErrNotPositiveDefinite))
	assert.False(t, Is(err, ErrSingularMatrix))
	assert.True(t, IsNumericalError(err))
	assert.False(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "cholesky factorization failed")

	var facErr *FactorizationError
	require.True(t, As(err, &facErr))
	assert.Equal(t, "cholesky", facErr.Method)
}

func TestWrappedSentinels(t *testing.T) {
	wrapped := Wrapf(NewModelError("LM.Predict", "empty data", ErrEmptyData), "in %s", "sweep")

	assert.True(t, Is(wrapped, ErrEmptyData))
	assert.True(t, IsConfigError(wrapped))
	assert.Contains(t, wrapped.Error(), "in sweep")
}

func TestCheckHelpers(t *testing.T) {
	assert.NoError(t, CheckNumericalStability("op", []float64{1, 2, 3}))
	assert.Error(t, CheckNumericalStability("op", []float64{1, math.NaN()}))
	assert.NoError(t, CheckScalar("op", 1.5))
	assert.Error(t, CheckScalar("op", math.Inf(-1)))
	assert.NoError(t, CheckPositive("op", "sigma2", 0.1))
	assert.Error(t, CheckPositive("op", "sigma2", 0))
	assert.True(t, IsNumericalError(CheckPositive("op", "sigma2", -1)))
}

type denseStub [][]float64

func (d denseStub) Dims() (int, int)    { return len(d), len(d[0]) }
func (d denseStub) At(i, j int) float64 { return d[i][j] }

func TestCheckMatrix(t *testing.T) {
	assert.NoError(t, CheckMatrix("op", denseStub{{1, 2}, {3, 4}}))

	err := CheckMatrix("op", denseStub{{1, math.Inf(1)}, {3, 4}})
	var numErr *NumericalInstabilityError
	require.True(t, As(err, &numErr))
	assert.Len(t, numErr.Values, 1)
}

func TestWarnUsesHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(nil)

	Warn(NewIllConditionedWarning("LM.Fit", 1e12))

	require.Len(t, got, 1)
	assert.Contains(t, got[0].Error(), "ill-conditioned")
}

func TestWarningMarshalZerolog(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logger.Warn().Object("warning", NewNegativeVarianceWarning("GP.Posterior", 2, -1e-3)).Msg("variance")

	out := buf.String()
	assert.Contains(t, out, `"type":"NegativeVarianceWarning"`)
	assert.Contains(t, out, `"index":2`)
}
