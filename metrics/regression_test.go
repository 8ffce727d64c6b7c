package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/bayesreg/pkg/errors"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.VecDense
		yPred     *mat.VecDense
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect prediction",
			yTrue:     mat.NewVecDense(5, []float64{1.0, 2.0, 3.0, 4.0, 5.0}),
			yPred:     mat.NewVecDense(5, []float64{1.0, 2.0, 3.0, 4.0, 5.0}),
			want:      0.0,
			tolerance: 1e-10,
		},
		{
			name:      "simple case",
			yTrue:     mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0}),
			yPred:     mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5}),
			want:      0.25,
			tolerance: 1e-10,
		},
		{
			name:      "larger errors",
			yTrue:     mat.NewVecDense(3, []float64{10.0, 20.0, 30.0}),
			yPred:     mat.NewVecDense(3, []float64{12.0, 18.0, 33.0}),
			want:      17.0 / 3.0,
			tolerance: 1e-10,
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(3, []float64{1.0, 2.0, 3.0}),
			yPred:   mat.NewVecDense(2, []float64{1.0, 2.0}),
			wantErr: true,
		},
		{
			name:    "empty vectors",
			yTrue:   &mat.VecDense{},
			yPred:   &mat.VecDense{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)

			if (err != nil) != tt.wantErr {
				t.Errorf("MSE() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				if math.Abs(got-tt.want) > tt.tolerance {
					t.Errorf("MSE() = %v, want %v (tolerance: %v)", got, tt.want, tt.tolerance)
				}
			}
		})
	}
}

func TestSumSquaresAndRMSE(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{1, 2, 3})
	yPred := mat.NewVecDense(3, []float64{2, 2, 1})

	ss, err := SumSquares(yTrue, yPred)
	require.NoError(t, err)
	assert.Equal(t, 5.0, ss)

	rmse, err := RMSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(5.0/3.0), rmse, 1e-12)

	mae, err := MAE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mae, 1e-12)
}

func TestR2Score(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})

	r2, err := R2Score(yTrue, yTrue)
	require.NoError(t, err)
	assert.Equal(t, 1.0, r2)

	// predicting the mean scores zero
	r2, err = R2Score(yTrue, mat.NewVecDense(4, []float64{2.5, 2.5, 2.5, 2.5}))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, r2, 1e-12)

	_, err = R2Score(mat.NewVecDense(2, []float64{1, 1}), mat.NewVecDense(2, []float64{1, 2}))
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestGaussianLogLikelihoodMatchesPointwiseDensity(t *testing.T) {
	residuals := []float64{0.3, -1.2, 0.05, 2.1, -0.4}
	sigma2 := 0.7

	var ss float64
	for _, r := range residuals {
		ss += r * r
	}

	got, err := GaussianLogLikelihood(len(residuals), ss, sigma2)
	require.NoError(t, err)

	normal := distuv.Normal{Mu: 0, Sigma: math.Sqrt(sigma2)}
	var want float64
	for _, r := range residuals {
		want += normal.LogProb(r)
	}
	assert.InDelta(t, want, got, 1e-10)
}

func TestGaussianLogLikelihoodRejectsNonPositiveVariance(t *testing.T) {
	for _, sigma2 := range []float64{0, -1, math.NaN()} {
		_, err := GaussianLogLikelihood(3, 1, sigma2)
		require.Error(t, err)
		assert.True(t, errors.IsNumericalError(err))
	}
}
